package service

import (
	"context"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
)

// RecommendationService 基于最近邻（共同点赞最多的一位用户）推荐电影
type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID int64) ([]model.Film, error)
}

type recommendationService struct {
	store *repository.Store
}

func NewRecommendationService(store *repository.Store) RecommendationService {
	return &recommendationService{store: store}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, userID int64) ([]model.Film, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	neighbor, ok, err := s.store.Likes.NearestNeighbor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Film{}, nil
	}
	ids, err := s.store.Likes.FilmIDsLikedOnlyBy(ctx, neighbor, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Film{}, nil
	}
	return s.store.Films.Find(ctx, repository.FilmQuery{IDs: ids, Order: repository.OrderByLikes})
}
