package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

const DefaultPopularCount = 10

// PopularQuery Count 为 nil 时取 DefaultPopularCount；Year 为空串表示不限
type PopularQuery struct {
	Count   *int
	GenreID *int64
	Year    string
}

// RankingService 排行、导演作品、搜索
type RankingService interface {
	FilmsPopular(ctx context.Context, q PopularQuery) ([]model.Film, error)
	GetFilmsOfDirectors(ctx context.Context, directorID int64, sortBy string) ([]model.Film, error)
	FilmSearch(ctx context.Context, text, by string) ([]model.Film, error)
	CommonFilms(ctx context.Context, userID, friendID int64) ([]model.Film, error)
}

type rankingService struct {
	store *repository.Store
}

func NewRankingService(store *repository.Store) RankingService {
	return &rankingService{store: store}
}

func (s *rankingService) FilmsPopular(ctx context.Context, q PopularQuery) ([]model.Film, error) {
	fq := repository.FilmQuery{Order: repository.OrderByLikes, Limit: DefaultPopularCount}
	if q.Count != nil {
		if *q.Count <= 0 {
			return nil, apperror.FieldValidation("count", "must be positive")
		}
		fq.Limit = *q.Count
	}
	if q.Year != "" {
		year, err := parseYear(q.Year)
		if err != nil {
			return nil, err
		}
		fq.Year = year
	}
	if q.GenreID != nil {
		ok, err := s.store.Catalog.GenreExists(ctx, *q.GenreID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.NotFound("genre with id %d not found", *q.GenreID)
		}
		fq.GenreID = *q.GenreID
	}
	return s.store.Films.Find(ctx, fq)
}

// parseYear 只接受四位数字，不允许符号
func parseYear(s string) (int, error) {
	if len(s) != 4 {
		return 0, apperror.FieldValidation("year", "must be a four-digit year")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, apperror.FieldValidation("year", "must be a four-digit year")
		}
	}
	y, _ := strconv.Atoi(s)
	if y == 0 {
		return 0, apperror.FieldValidation("year", "must be a four-digit year")
	}
	return y, nil
}

// GetFilmsOfDirectors sortBy 为空时按 year
func (s *rankingService) GetFilmsOfDirectors(ctx context.Context, directorID int64, sortBy string) ([]model.Film, error) {
	var order repository.FilmOrder
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "", "year":
		order = repository.OrderByReleaseDate
	case "likes":
		order = repository.OrderByLikes
	default:
		return nil, apperror.FieldValidation("sortBy", "must be one of year, likes")
	}
	ok, err := s.store.Directors.Exists(ctx, directorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("director with id %d not found", directorID)
	}
	return s.store.Films.Find(ctx, repository.FilmQuery{DirectorID: directorID, Order: order})
}

// FilmSearch by 为逗号分隔的 title/director 组合；text 为空时返回全部电影
func (s *rankingService) FilmSearch(ctx context.Context, text, by string) ([]model.Film, error) {
	fq := repository.FilmQuery{Order: repository.OrderByLikes, Search: strings.TrimSpace(text)}
	if strings.TrimSpace(by) == "" {
		return nil, apperror.FieldValidation("by", "is required")
	}
	for _, tok := range strings.Split(by, ",") {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case "title":
			fq.SearchTitle = true
		case "director":
			fq.SearchDirector = true
		default:
			return nil, apperror.FieldValidation("by", "unknown search field %q", tok)
		}
	}
	return s.store.Films.Find(ctx, fq)
}

func (s *rankingService) CommonFilms(ctx context.Context, userID, friendID int64) ([]model.Film, error) {
	for _, id := range []int64{userID, friendID} {
		if err := requireUser(ctx, s.store, id); err != nil {
			return nil, err
		}
	}
	ids, err := s.store.Likes.CommonFilmIDs(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return s.store.Films.Find(ctx, repository.FilmQuery{IDs: ids, Order: repository.OrderByLikes})
}
