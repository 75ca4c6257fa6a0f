package petitions

import (
	"context"
	"errors"
	"time"

	"github.com/armandouv/petitions-backend/src/api/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// enrichWorkers bounds the per-item metric fan-out of a page; each worker
// holds at most one pooled connection.
const enrichWorkers = 4

// Service orchestrates the query builder, pager and metrics into the pages
// the HTTP layer serves. viewerID == 0 means an unauthenticated request; the
// Did* flags stay nil in that case.
type Service struct {
	db      *gorm.DB
	metrics Metrics
}

func NewService(db *gorm.DB) Service {
	return Service{db: db, metrics: NewMetrics(db)}
}

func (s Service) Metrics() Metrics { return s.metrics }

// Status loads the petition's resolution row and classifies it. Listing and
// single-item fetches both go through here so every surface agrees.
func (s Service) Status(ctx context.Context, petitionID uint64, now time.Time) (types.PetitionStatus, error) {
	var res types.Resolution
	err := s.db.WithContext(ctx).First(&res, "petition_id = ?", petitionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatusOf(nil, now), nil
	}
	if err != nil {
		return "", err
	}
	return StatusOf(&res, now), nil
}

// ListPage returns one page of enriched petition summaries. Enrichment fans
// out per item since each item's metrics are independent reads; results are
// written by index so the page keeps the query builder's order. Any failed
// enrichment fails the whole page: the items are all reads against the same
// store, and a partial page would only hide store trouble from the caller.
func (s Service) ListPage(ctx context.Context, p QueryParams, viewerID uint64) (types.Page[types.PetitionInfo], error) {
	now := time.Now().UTC()
	q := Query(s.db.WithContext(ctx), p, now)

	items, totalPages, err := GetPage[types.Petition](q, p.Page)
	if err != nil {
		return types.Page[types.PetitionInfo]{}, err
	}

	infos := make([]types.PetitionInfo, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for i, pet := range items {
		g.Go(func() error {
			info, err := s.petitionInfo(gctx, pet, viewerID, now)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Page[types.PetitionInfo]{}, err
	}

	return types.Page[types.PetitionInfo]{PageElements: infos, TotalPages: totalPages}, nil
}

// SavedPage lists the viewer's saved petitions, most recent first.
func (s Service) SavedPage(ctx context.Context, viewerID uint64, page int) (types.Page[types.PetitionInfo], error) {
	now := time.Now().UTC()
	q := s.db.WithContext(ctx).Model(&types.Petition{}).
		Joins("INNER JOIN petition_saves ON petition_saves.petition_id = petitions.id").
		Where("petition_saves.user_id = ?", viewerID).
		Order("petitions.id DESC")

	items, totalPages, err := GetPage[types.Petition](q, page)
	if err != nil {
		return types.Page[types.PetitionInfo]{}, err
	}

	infos := make([]types.PetitionInfo, len(items))
	for i, pet := range items {
		info, err := s.petitionInfo(ctx, pet, viewerID, now)
		if err != nil {
			return types.Page[types.PetitionInfo]{}, err
		}
		infos[i] = info
	}
	return types.Page[types.PetitionInfo]{PageElements: infos, TotalPages: totalPages}, nil
}

// PetitionDetail returns a single enriched petition including its
// description. gorm.ErrRecordNotFound passes through for the handler to map.
func (s Service) PetitionDetail(ctx context.Context, id, viewerID uint64) (types.PetitionInfo, error) {
	var pet types.Petition
	if err := s.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return types.PetitionInfo{}, err
	}
	info, err := s.petitionInfo(ctx, pet, viewerID, time.Now().UTC())
	if err != nil {
		return types.PetitionInfo{}, err
	}
	info.Description = pet.Description
	return info, nil
}

// CommentsPage returns one page of a petition's comments, newest first.
func (s Service) CommentsPage(ctx context.Context, petitionID uint64, page int, viewerID uint64) (types.Page[types.CommentInfo], error) {
	var pet types.Petition
	if err := s.db.WithContext(ctx).First(&pet, "id = ?", petitionID).Error; err != nil {
		return types.Page[types.CommentInfo]{}, err
	}

	q := s.db.WithContext(ctx).Model(&types.PetitionComment{}).
		Where("petition_id = ?", petitionID).
		Order("petition_comments.id DESC")

	comments, totalPages, err := GetPage[types.PetitionComment](q, page)
	if err != nil {
		return types.Page[types.CommentInfo]{}, err
	}

	infos := make([]types.CommentInfo, len(comments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for i, cm := range comments {
		g.Go(func() error {
			info, err := s.commentInfo(gctx, cm, viewerID)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Page[types.CommentInfo]{}, err
	}

	return types.Page[types.CommentInfo]{PageElements: infos, TotalPages: totalPages}, nil
}

func (s Service) petitionInfo(ctx context.Context, pet types.Petition, viewerID uint64, now time.Time) (types.PetitionInfo, error) {
	status, err := s.Status(ctx, pet.ID, now)
	if err != nil {
		return types.PetitionInfo{}, err
	}
	votes, err := s.metrics.CountVotes(ctx, pet.ID)
	if err != nil {
		return types.PetitionInfo{}, err
	}
	comments, err := s.metrics.CountComments(ctx, pet.ID)
	if err != nil {
		return types.PetitionInfo{}, err
	}

	info := types.PetitionInfo{
		ID:          pet.ID,
		Title:       pet.Title,
		Date:        pet.CreatedAt,
		Status:      status,
		NumVotes:    votes,
		NumComments: comments,
	}

	if viewerID != 0 {
		didVote, err := s.metrics.DidUserVote(ctx, pet.ID, viewerID)
		if err != nil {
			return types.PetitionInfo{}, err
		}
		didSave, err := s.metrics.DidUserSave(ctx, pet.ID, viewerID)
		if err != nil {
			return types.PetitionInfo{}, err
		}
		info.DidVote = &didVote
		info.DidSave = &didSave
	}

	return info, nil
}

func (s Service) commentInfo(ctx context.Context, cm types.PetitionComment, viewerID uint64) (types.CommentInfo, error) {
	likes, err := s.metrics.CountCommentLikes(ctx, cm.ID)
	if err != nil {
		return types.CommentInfo{}, err
	}
	info := types.CommentInfo{
		ID:       cm.ID,
		Date:     cm.CreatedAt,
		Text:     cm.Text,
		NumLikes: likes,
	}
	if viewerID != 0 {
		didLike, err := s.metrics.DidUserLikeComment(ctx, cm.ID, viewerID)
		if err != nil {
			return types.CommentInfo{}, err
		}
		info.DidLike = &didLike
	}
	return info, nil
}
