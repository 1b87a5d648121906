package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

// FilmService 电影与点赞
type FilmService interface {
	Create(ctx context.Context, f *model.Film) (*model.Film, error)
	Update(ctx context.Context, f *model.Film) (*model.Film, error)
	Get(ctx context.Context, id int64) (*model.Film, error)
	List(ctx context.Context) ([]model.Film, error)
	Delete(ctx context.Context, id int64) error

	AddLike(ctx context.Context, filmID, userID int64) error
	DeleteLike(ctx context.Context, filmID, userID int64) error
}

type filmService struct {
	store     *repository.Store
	publisher FeedPublisher
}

func NewFilmService(store *repository.Store, publisher FeedPublisher) FilmService {
	return &filmService{store: store, publisher: publisher}
}

func validateFilm(f *model.Film) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperror.FieldValidation("name", "must not be blank")
	}
	if utf8.RuneCountInString(f.Description) > 200 {
		return apperror.FieldValidation("description", "must be at most 200 characters")
	}
	if !f.ReleaseDate.After(model.MinReleaseDate.Time) {
		return apperror.FieldValidation("releaseDate", "must be after %s", model.MinReleaseDate)
	}
	if f.Duration <= 0 {
		return apperror.FieldValidation("duration", "must be positive")
	}
	if f.Mpa == nil {
		return apperror.FieldValidation("mpa", "is required")
	}
	return nil
}

// checkRefs 分级、类型、导演必须存在；在事务内执行并锁住导演行
func checkRefs(ctx context.Context, tx *repository.Store, f *model.Film) error {
	ok, err := tx.Catalog.MpaExists(ctx, f.MpaID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("mpa with id %d not found", f.MpaID)
	}
	genreIDs := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	missing, err := tx.Catalog.MissingGenres(ctx, genreIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperror.NotFound("genre with id %d not found", missing[0])
	}
	directorIDs := make([]int64, 0, len(f.Directors))
	for _, d := range f.Directors {
		directorIDs = append(directorIDs, d.ID)
	}
	return lockExisting(ctx, tx.Directors.Lock, "director", directorIDs...)
}

func (s *filmService) Create(ctx context.Context, f *model.Film) (*model.Film, error) {
	if err := validateFilm(f); err != nil {
		return nil, err
	}
	f.ID = 0
	f.Normalize()
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkRefs(ctx, tx, f); err != nil {
			return err
		}
		if err := tx.Films.Create(ctx, f); err != nil {
			return fmt.Errorf("create film: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Films.Get(ctx, f.ID)
}

func (s *filmService) Update(ctx context.Context, f *model.Film) (*model.Film, error) {
	if f.ID <= 0 {
		return nil, apperror.FieldValidation("id", "must be positive")
	}
	if err := validateFilm(f); err != nil {
		return nil, err
	}
	f.Normalize()
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Films.Lock, "film", f.ID); err != nil {
			return err
		}
		if err := checkRefs(ctx, tx, f); err != nil {
			return err
		}
		return tx.Films.Update(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Films.Get(ctx, f.ID)
}

func (s *filmService) Get(ctx context.Context, id int64) (*model.Film, error) {
	return s.store.Films.Get(ctx, id)
}

func (s *filmService) List(ctx context.Context) ([]model.Film, error) {
	return s.store.Films.Find(ctx, repository.FilmQuery{Order: repository.OrderByID})
}

func (s *filmService) Delete(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Films.Lock, "film", id); err != nil {
			return err
		}
		reviewIDs, err := tx.Films.ReviewIDs(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Ratings.DeleteByReviews(ctx, reviewIDs); err != nil {
			return err
		}
		if err := tx.Reviews.DeleteByIDs(ctx, reviewIDs); err != nil {
			return err
		}
		if err := tx.Likes.DeleteByFilm(ctx, id); err != nil {
			return err
		}
		if err := tx.Feed.DeleteByEntities(ctx, model.EventLike, []int64{id}); err != nil {
			return err
		}
		if err := tx.Feed.DeleteByEntities(ctx, model.EventReview, reviewIDs); err != nil {
			return err
		}
		if err := tx.Films.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete film %d: %w", id, err)
		}
		return nil
	})
}

func (s *filmService) AddLike(ctx context.Context, filmID, userID int64) error {
	feed := newFeedLog(s.publisher)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockUserAnd(ctx, tx, userID, tx.Films.Lock, "film", filmID); err != nil {
			return err
		}
		added, err := tx.Likes.Create(ctx, userID, filmID)
		if err != nil || !added {
			return err
		}
		return feed.add(ctx, tx, userID, model.EventLike, model.OperationAdd, filmID)
	})
	if err != nil {
		return err
	}
	feed.commit()
	return nil
}

// DeleteLike 未点赞时为空操作
func (s *filmService) DeleteLike(ctx context.Context, filmID, userID int64) error {
	feed := newFeedLog(s.publisher)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockUserAnd(ctx, tx, userID, tx.Films.Lock, "film", filmID); err != nil {
			return err
		}
		removed, err := tx.Likes.Delete(ctx, userID, filmID)
		if err != nil || !removed {
			return err
		}
		return feed.add(ctx, tx, userID, model.EventLike, model.OperationRemove, filmID)
	})
	if err != nil {
		return err
	}
	feed.commit()
	return nil
}
