package service

import (
	"context"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
)

// CatalogService 类型与分级只读查询
type CatalogService interface {
	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (*model.Genre, error)
	ListMpa(ctx context.Context) ([]model.Mpa, error)
	GetMpa(ctx context.Context, id int64) (*model.Mpa, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *catalogService) GetGenre(ctx context.Context, id int64) (*model.Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *catalogService) ListMpa(ctx context.Context) ([]model.Mpa, error) {
	return s.repo.ListMpa(ctx)
}

func (s *catalogService) GetMpa(ctx context.Context, id int64) (*model.Mpa, error) {
	return s.repo.GetMpa(ctx, id)
}
