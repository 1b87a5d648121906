package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/filmgraph/internal/model"
)

type LikeRepository interface {
	// Create 幂等写入，返回是否新增
	Create(ctx context.Context, userID, filmID int64) (bool, error)
	// Delete 返回是否真的删除了记录
	Delete(ctx context.Context, userID, filmID int64) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByFilm(ctx context.Context, filmID int64) error
	// NearestNeighbor 与 userID 共同点赞最多的用户，并列取 id 最小者
	NearestNeighbor(ctx context.Context, userID int64) (neighborID int64, ok bool, err error)
	// FilmIDsLikedOnlyBy 被 likerID 点赞而 userID 未点赞的电影
	FilmIDsLikedOnlyBy(ctx context.Context, likerID, userID int64) ([]int64, error)
	// CommonFilmIDs 两个用户都点赞过的电影
	CommonFilmIDs(ctx context.Context, userID, otherID int64) ([]int64, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, userID, filmID int64) (bool, error) {
	l := &model.Like{UserID: userID, FilmID: filmID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	return res.RowsAffected > 0, res.Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, filmID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Like{}).Error
}

func (r *likeRepository) DeleteByFilm(ctx context.Context, filmID int64) error {
	return r.db.WithContext(ctx).Where("film_id = ?", filmID).Delete(&model.Like{}).Error
}

func (r *likeRepository) NearestNeighbor(ctx context.Context, userID int64) (int64, bool, error) {
	var rows []struct {
		UserID int64
		Shared int64
	}
	err := r.db.WithContext(ctx).
		Table("likes AS mine").
		Select("other.user_id AS user_id, COUNT(*) AS shared").
		Joins("JOIN likes AS other ON other.film_id = mine.film_id AND other.user_id <> mine.user_id").
		Where("mine.user_id = ?", userID).
		Group("other.user_id").
		Order("shared DESC, other.user_id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return 0, false, err
	}
	return rows[0].UserID, true, nil
}

func (r *likeRepository) FilmIDsLikedOnlyBy(ctx context.Context, likerID, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ?", likerID).
		Where("film_id NOT IN (?)", r.db.Model(&model.Like{}).Select("film_id").Where("user_id = ?", userID)).
		Order("film_id").
		Pluck("film_id", &ids).Error
	return ids, err
}

func (r *likeRepository) CommonFilmIDs(ctx context.Context, userID, otherID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ?", userID).
		Where("film_id IN (?)", r.db.Model(&model.Like{}).Select("film_id").Where("user_id = ?", otherID)).
		Order("film_id").
		Pluck("film_id", &ids).Error
	return ids, err
}
