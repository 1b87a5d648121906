package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

const DefaultReviewCount = 10

// ReviewService 影评与影评评分
type ReviewService interface {
	Create(ctx context.Context, rv *model.Review) (*model.Review, error)
	Update(ctx context.Context, rv *model.Review) (*model.Review, error)
	Get(ctx context.Context, id int64) (*model.Review, error)
	// List filmID 为 0 时返回所有影评；count 为 nil 时取 DefaultReviewCount
	List(ctx context.Context, filmID int64, count *int) ([]model.Review, error)
	Delete(ctx context.Context, id int64) error

	AddReviewLike(ctx context.Context, reviewID, userID int64) error
	AddReviewDislike(ctx context.Context, reviewID, userID int64) error
	// DeleteReviewRating 没有评分时为空操作
	DeleteReviewRating(ctx context.Context, reviewID, userID int64) error
}

type reviewService struct {
	store     *repository.Store
	publisher FeedPublisher
}

func NewReviewService(store *repository.Store, publisher FeedPublisher) ReviewService {
	return &reviewService{store: store, publisher: publisher}
}

func validateReview(rv *model.Review) error {
	if strings.TrimSpace(rv.Content) == "" {
		return apperror.FieldValidation("content", "must not be blank")
	}
	if rv.IsPositive == nil {
		return apperror.FieldValidation("isPositive", "is required")
	}
	return nil
}

func (s *reviewService) Create(ctx context.Context, rv *model.Review) (*model.Review, error) {
	if err := validateReview(rv); err != nil {
		return nil, err
	}
	rv.ID = 0
	feed := newFeedLog(s.publisher)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockUserAnd(ctx, tx, rv.UserID, tx.Films.Lock, "film", rv.FilmID); err != nil {
			return err
		}
		if err := tx.Reviews.Create(ctx, rv); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		return feed.add(ctx, tx, rv.UserID, model.EventReview, model.OperationAdd, rv.ID)
	})
	if err != nil {
		return nil, err
	}
	feed.commit()
	return s.store.Reviews.Get(ctx, rv.ID)
}

// Update 只改内容与正负面；动态记在影评作者名下
func (s *reviewService) Update(ctx context.Context, rv *model.Review) (*model.Review, error) {
	if rv.ID <= 0 {
		return nil, apperror.FieldValidation("reviewId", "must be positive")
	}
	if err := validateReview(rv); err != nil {
		return nil, err
	}
	feed := newFeedLog(s.publisher)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Reviews.Lock, "review", rv.ID); err != nil {
			return err
		}
		existing, err := tx.Reviews.Get(ctx, rv.ID)
		if err != nil {
			return err
		}
		if err := tx.Reviews.Update(ctx, rv); err != nil {
			return err
		}
		return feed.add(ctx, tx, existing.UserID, model.EventReview, model.OperationUpdate, rv.ID)
	})
	if err != nil {
		return nil, err
	}
	feed.commit()
	return s.store.Reviews.Get(ctx, rv.ID)
}

func (s *reviewService) Get(ctx context.Context, id int64) (*model.Review, error) {
	return s.store.Reviews.Get(ctx, id)
}

func (s *reviewService) List(ctx context.Context, filmID int64, count *int) ([]model.Review, error) {
	limit := DefaultReviewCount
	if count != nil {
		if *count <= 0 {
			return nil, apperror.FieldValidation("count", "must be positive")
		}
		limit = *count
	}
	if filmID != 0 {
		if err := requireFilm(ctx, s.store, filmID); err != nil {
			return nil, err
		}
	}
	return s.store.Reviews.List(ctx, filmID, limit)
}

func (s *reviewService) Delete(ctx context.Context, id int64) error {
	feed := newFeedLog(s.publisher)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Reviews.Lock, "review", id); err != nil {
			return err
		}
		existing, err := tx.Reviews.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Ratings.DeleteByReviews(ctx, []int64{id}); err != nil {
			return err
		}
		if err := tx.Reviews.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete review %d: %w", id, err)
		}
		return feed.add(ctx, tx, existing.UserID, model.EventReview, model.OperationRemove, id)
	})
	if err != nil {
		return err
	}
	feed.commit()
	return nil
}

func (s *reviewService) AddReviewLike(ctx context.Context, reviewID, userID int64) error {
	return s.rate(ctx, reviewID, userID, model.ReviewLikeScore)
}

func (s *reviewService) AddReviewDislike(ctx context.Context, reviewID, userID int64) error {
	return s.rate(ctx, reviewID, userID, model.ReviewDislikeScore)
}

func (s *reviewService) rate(ctx context.Context, reviewID, userID int64, score int) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockUserAnd(ctx, tx, userID, tx.Reviews.Lock, "review", reviewID); err != nil {
			return err
		}
		return tx.Ratings.Upsert(ctx, userID, reviewID, score)
	})
}

func (s *reviewService) DeleteReviewRating(ctx context.Context, reviewID, userID int64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockUserAnd(ctx, tx, userID, tx.Reviews.Lock, "review", reviewID); err != nil {
			return err
		}
		_, err := tx.Ratings.Delete(ctx, userID, reviewID)
		return err
	})
}
