package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

type DirectorService interface {
	Create(ctx context.Context, d *model.Director) (*model.Director, error)
	Update(ctx context.Context, d *model.Director) (*model.Director, error)
	Get(ctx context.Context, id int64) (*model.Director, error)
	List(ctx context.Context) ([]model.Director, error)
	Delete(ctx context.Context, id int64) error
}

type directorService struct {
	store *repository.Store
}

func NewDirectorService(store *repository.Store) DirectorService {
	return &directorService{store: store}
}

func (s *directorService) Create(ctx context.Context, d *model.Director) (*model.Director, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, apperror.FieldValidation("name", "must not be blank")
	}
	d.ID = 0
	if err := s.store.Directors.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *directorService) Update(ctx context.Context, d *model.Director) (*model.Director, error) {
	if d.ID <= 0 {
		return nil, apperror.FieldValidation("id", "must be positive")
	}
	if strings.TrimSpace(d.Name) == "" {
		return nil, apperror.FieldValidation("name", "must not be blank")
	}
	if err := s.store.Directors.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.store.Directors.Get(ctx, d.ID)
}

func (s *directorService) Get(ctx context.Context, id int64) (*model.Director, error) {
	return s.store.Directors.Get(ctx, id)
}

func (s *directorService) List(ctx context.Context) ([]model.Director, error) {
	return s.store.Directors.List(ctx)
}

// Delete 同时解除与电影的关联
func (s *directorService) Delete(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Directors.Lock, "director", id); err != nil {
			return err
		}
		return tx.Directors.Delete(ctx, id)
	})
}
