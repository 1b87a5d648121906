package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
)

// CatalogRepository 只读字典：类型与分级
type CatalogRepository interface {
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (*model.Genre, error)
	GenreExists(ctx context.Context, id int64) (bool, error)
	MissingGenres(ctx context.Context, ids []int64) ([]int64, error)
	ListMpa(ctx context.Context) ([]model.Mpa, error)
	GetMpa(ctx context.Context, id int64) (*model.Mpa, error)
	MpaExists(ctx context.Context, id int64) (bool, error)
}

type catalogRepository struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepository{db: db} }

func (r *catalogRepository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	res := []model.Genre{}
	err := r.db.WithContext(ctx).Order("id").Find(&res).Error
	return res, err
}

func (r *catalogRepository) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	var g model.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, notFoundOr(err, "genre with id %d not found", id)
	}
	return &g, nil
}

func (r *catalogRepository) GenreExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "genres", id)
}

func (r *catalogRepository) MissingGenres(ctx context.Context, ids []int64) ([]int64, error) {
	return missingIDs(ctx, r.db, "genres", ids)
}

func (r *catalogRepository) ListMpa(ctx context.Context) ([]model.Mpa, error) {
	res := []model.Mpa{}
	err := r.db.WithContext(ctx).Order("id").Find(&res).Error
	return res, err
}

func (r *catalogRepository) GetMpa(ctx context.Context, id int64) (*model.Mpa, error) {
	var m model.Mpa
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFoundOr(err, "mpa with id %d not found", id)
	}
	return &m, nil
}

func (r *catalogRepository) MpaExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "mpa", id)
}
