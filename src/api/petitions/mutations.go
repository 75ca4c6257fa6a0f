package petitions

import (
	"context"
	"time"

	"github.com/armandouv/petitions-backend/src/api/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePetition stores a new petition for the user's campus and returns its id.
func (s Service) CreatePetition(ctx context.Context, userID uint64, campus, title, description string) (uint64, error) {
	pet := types.Petition{
		Campus:      campus,
		Title:       title,
		Description: description,
		UserID:      userID,
	}
	if err := s.db.WithContext(ctx).Create(&pet).Error; err != nil {
		return 0, err
	}
	return pet.ID, nil
}

func (s Service) EditPetition(ctx context.Context, id uint64, title, description string) error {
	return s.db.WithContext(ctx).Model(&types.Petition{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "description": description}).Error
}

// DeletePetition removes a petition together with its votes, saves,
// resolution, comments and comment likes.
func (s Service) DeletePetition(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("petition_id = ?", id).Delete(&types.PetitionVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("petition_id = ?", id).Delete(&types.PetitionSave{}).Error; err != nil {
			return err
		}
		if err := tx.Where("petition_id = ?", id).Delete(&types.Resolution{}).Error; err != nil {
			return err
		}
		commentIDs := tx.Model(&types.PetitionComment{}).Select("id").Where("petition_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&types.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("petition_id = ?", id).Delete(&types.PetitionComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&types.Petition{}, "id = ?", id).Error
	})
}

// Vote records the user's vote. Voting twice is a no-op thanks to the unique
// (petition, user) index. Reaching MinPetitionVotes opens a resolution with
// a deadline of ResolutionWindow from now.
func (s Service) Vote(ctx context.Context, petitionID, userID uint64) error {
	db := s.db.WithContext(ctx)
	if err := db.First(&types.Petition{}, "id = ?", petitionID).Error; err != nil {
		return err
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.PetitionVote{PetitionID: petitionID, UserID: userID}).Error
	if err != nil {
		return err
	}

	votes, err := s.metrics.CountVotes(ctx, petitionID)
	if err != nil {
		return err
	}
	if votes >= MinPetitionVotes {
		return s.OpenResolution(ctx, petitionID, time.Now().UTC())
	}
	return nil
}

// Unvote removes the user's vote; removing an absent vote is a no-op.
func (s Service) Unvote(ctx context.Context, petitionID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("petition_id = ? AND user_id = ?", petitionID, userID).
		Delete(&types.PetitionVote{}).Error
}

func (s Service) Save(ctx context.Context, petitionID, userID uint64) error {
	db := s.db.WithContext(ctx)
	if err := db.First(&types.Petition{}, "id = ?", petitionID).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.PetitionSave{PetitionID: petitionID, UserID: userID}).Error
}

func (s Service) Unsave(ctx context.Context, petitionID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("petition_id = ? AND user_id = ?", petitionID, userID).
		Delete(&types.PetitionSave{}).Error
}

func (s Service) CreateComment(ctx context.Context, petitionID, userID uint64, text string) (uint64, error) {
	db := s.db.WithContext(ctx)
	if err := db.First(&types.Petition{}, "id = ?", petitionID).Error; err != nil {
		return 0, err
	}
	cm := types.PetitionComment{PetitionID: petitionID, UserID: userID, Text: text}
	if err := db.Create(&cm).Error; err != nil {
		return 0, err
	}
	return cm.ID, nil
}

// DeleteComment removes a comment and its likes.
func (s Service) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&types.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&types.PetitionComment{}, "id = ?", commentID).Error
	})
}

func (s Service) LikeComment(ctx context.Context, commentID, userID uint64) error {
	db := s.db.WithContext(ctx)
	if err := db.First(&types.PetitionComment{}, "id = ?", commentID).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.CommentLike{CommentID: commentID, UserID: userID}).Error
}

func (s Service) UnlikeComment(ctx context.Context, commentID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&types.CommentLike{}).Error
}

// OpenResolution creates the petition's resolution row if it does not exist
// yet. Calling it again once a resolution exists changes nothing.
func (s Service) OpenResolution(ctx context.Context, petitionID uint64, now time.Time) error {
	res := types.Resolution{PetitionID: petitionID, Deadline: now.Add(ResolutionWindow)}
	return s.db.WithContext(ctx).
		Where("petition_id = ?", petitionID).
		FirstOrCreate(&res).Error
}

// TerminateResolution records the outcome. Text and timestamp are set in one
// update so the terminated invariant (text present iff resolved) holds.
func (s Service) TerminateResolution(ctx context.Context, petitionID uint64, text string, now time.Time) error {
	db := s.db.WithContext(ctx)
	var res types.Resolution
	if err := db.First(&res, "petition_id = ?", petitionID).Error; err != nil {
		return err
	}
	return db.Model(&res).
		Updates(map[string]interface{}{"resolution_text": text, "resolved_at": now}).Error
}
