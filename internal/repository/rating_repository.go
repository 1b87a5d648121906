package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/filmgraph/internal/model"
)

type RatingRepository interface {
	// Upsert 同一用户对同一影评只保留最后一次评分
	Upsert(ctx context.Context, userID, reviewID int64, score int) error
	Delete(ctx context.Context, userID, reviewID int64) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByReviews(ctx context.Context, reviewIDs []int64) error
}

type ratingRepository struct{ db *gorm.DB }

func NewRatingRepository(db *gorm.DB) RatingRepository { return &ratingRepository{db: db} }

func (r *ratingRepository) Upsert(ctx context.Context, userID, reviewID int64, score int) error {
	rating := &model.ReviewRating{UserID: userID, ReviewID: reviewID, Score: score}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "review_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score"}),
	}).Create(rating).Error
}

func (r *ratingRepository) Delete(ctx context.Context, userID, reviewID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&model.ReviewRating{})
	return res.RowsAffected > 0, res.Error
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ReviewRating{}).Error
}

func (r *ratingRepository) DeleteByReviews(ctx context.Context, reviewIDs []int64) error {
	if len(reviewIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("review_id IN ?", reviewIDs).Delete(&model.ReviewRating{}).Error
}
