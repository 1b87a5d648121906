package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	// Update 只更新内容与正负面，作者与电影不可改
	Update(ctx context.Context, rv *model.Review) error
	Get(ctx context.Context, id int64) (*model.Review, error)
	// List filmID 为 0 时不过滤；按 useful 降序、id 升序
	List(ctx context.Context, filmID int64, limit int) ([]model.Review, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Lock 对影评行加行锁，返回实际锁到的 id
	Lock(ctx context.Context, ids ...int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
	IDsByUser(ctx context.Context, userID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) Update(ctx context.Context, rv *model.Review) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", rv.ID).Updates(map[string]any{
		"content":     rv.Content,
		"is_positive": rv.IsPositive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("review with id %d not found", rv.ID)
	}
	return nil
}

type reviewRow struct {
	ID         int64
	Content    string
	IsPositive bool
	UserID     int64
	FilmID     int64
	Useful     int64
}

func (row reviewRow) toModel() model.Review {
	positive := row.IsPositive
	return model.Review{
		ID:         row.ID,
		Content:    row.Content,
		IsPositive: &positive,
		UserID:     row.UserID,
		FilmID:     row.FilmID,
		Useful:     row.Useful,
	}
}

func (r *reviewRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.content, reviews.is_positive, reviews.user_id, reviews.film_id, " +
			"COALESCE(SUM(review_ratings.score), 0) AS useful").
		Joins("LEFT JOIN review_ratings ON review_ratings.review_id = reviews.id").
		Group("reviews.id, reviews.content, reviews.is_positive, reviews.user_id, reviews.film_id")
}

func (r *reviewRepository) Get(ctx context.Context, id int64) (*model.Review, error) {
	var rows []reviewRow
	if err := r.query(ctx).Where("reviews.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("review with id %d not found", id)
	}
	rv := rows[0].toModel()
	return &rv, nil
}

func (r *reviewRepository) List(ctx context.Context, filmID int64, limit int) ([]model.Review, error) {
	tx := r.query(ctx)
	if filmID > 0 {
		tx = tx.Where("reviews.film_id = ?", filmID)
	}
	tx = tx.Order("useful DESC").Order("reviews.id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var rows []reviewRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *reviewRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "reviews", id)
}

func (r *reviewRepository) Lock(ctx context.Context, ids ...int64) ([]int64, error) {
	return lockIDs(ctx, r.db, "reviews", ids)
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

func (r *reviewRepository) IDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *reviewRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Review{}).Error
}
