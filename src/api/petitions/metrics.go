package petitions

import (
	"context"
	"errors"
	"fmt"

	"github.com/armandouv/petitions-backend/src/api/types"
	"gorm.io/gorm"
)

// ErrIntegrity reports a relation row uniqueness violation: more than one
// row matched where the schema allows at most one. Callers must surface it,
// never coerce it to a boolean.
var ErrIntegrity = errors.New("petitions: relation uniqueness violated")

// Metrics answers the count and per-viewer relationship questions for
// petitions and comments. Every method is a plain read reflecting persisted
// state at call time; nothing is cached.
type Metrics struct{ db *gorm.DB }

func NewMetrics(db *gorm.DB) Metrics { return Metrics{db: db} }

func (m Metrics) CountVotes(ctx context.Context, petitionID uint64) (int64, error) {
	var n int64
	err := m.db.WithContext(ctx).Model(&types.PetitionVote{}).
		Where("petition_id = ?", petitionID).Count(&n).Error
	return n, err
}

func (m Metrics) CountComments(ctx context.Context, petitionID uint64) (int64, error) {
	var n int64
	err := m.db.WithContext(ctx).Model(&types.PetitionComment{}).
		Where("petition_id = ?", petitionID).Count(&n).Error
	return n, err
}

func (m Metrics) CountCommentLikes(ctx context.Context, commentID uint64) (int64, error) {
	var n int64
	err := m.db.WithContext(ctx).Model(&types.CommentLike{}).
		Where("comment_id = ?", commentID).Count(&n).Error
	return n, err
}

func (m Metrics) DidUserVote(ctx context.Context, petitionID, userID uint64) (bool, error) {
	return m.exists(ctx, &types.PetitionVote{}, "petition_id = ? AND user_id = ?", petitionID, userID)
}

func (m Metrics) DidUserSave(ctx context.Context, petitionID, userID uint64) (bool, error) {
	return m.exists(ctx, &types.PetitionSave{}, "petition_id = ? AND user_id = ?", petitionID, userID)
}

func (m Metrics) DidUserLikeComment(ctx context.Context, commentID, userID uint64) (bool, error) {
	return m.exists(ctx, &types.CommentLike{}, "comment_id = ? AND user_id = ?", commentID, userID)
}

// exists checks whether the unique relation row is present. More than one
// matching row means the uniqueness constraint failed somewhere; that is
// reported as ErrIntegrity, not mapped to true.
func (m Metrics) exists(ctx context.Context, model interface{}, cond string, args ...interface{}) (bool, error) {
	var n int64
	if err := m.db.WithContext(ctx).Model(model).Where(cond, args...).Count(&n).Error; err != nil {
		return false, err
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d rows for %T", ErrIntegrity, n, model)
	}
}
