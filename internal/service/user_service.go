package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

// UserService 用户增删改查
type UserService interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Delete 级联删除点赞、好友申请、评分、影评与动态
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	u.ID = 0
	u.Normalize()
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID <= 0 {
		return nil, apperror.FieldValidation("id", "must be positive")
	}
	u.Normalize()
	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.store.Users.Get(ctx, u.ID)
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.store.Users.Get(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.store.Users.List(ctx)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := lockExisting(ctx, tx.Users.Lock, "user", id); err != nil {
			return err
		}
		if err := tx.Likes.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.FriendRequests.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Ratings.DeleteByUser(ctx, id); err != nil {
			return err
		}
		reviewIDs, err := tx.Reviews.IDsByUser(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Ratings.DeleteByReviews(ctx, reviewIDs); err != nil {
			return err
		}
		if err := tx.Reviews.DeleteByIDs(ctx, reviewIDs); err != nil {
			return err
		}
		if err := tx.Feed.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Users.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
}

// lockExisting 在事务内锁住 ids 对应的行，缺失任一行即 NotFound。
// 写入点赞、影评、评分前必须先锁住被引用的行，与级联删除互斥。
func lockExisting(ctx context.Context, lock func(context.Context, ...int64) ([]int64, error), entity string, ids ...int64) error {
	locked, err := lock(ctx, ids...)
	if err != nil {
		return fmt.Errorf("lock %s: %w", entity, err)
	}
	return requireLocked(entity, locked, ids...)
}

func requireLocked(entity string, locked []int64, ids ...int64) error {
	for _, id := range ids {
		found := false
		for _, l := range locked {
			if l == id {
				found = true
				break
			}
		}
		if !found {
			return apperror.NotFound("%s with id %d not found", entity, id)
		}
	}
	return nil
}

// lockUserAnd 按 users 在前的顺序加锁；两者都缺失时先报告 entity
func lockUserAnd(ctx context.Context, tx *repository.Store, userID int64, lock func(context.Context, ...int64) ([]int64, error), entity string, id int64) error {
	users, err := tx.Users.Lock(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	if err := lockExisting(ctx, lock, entity, id); err != nil {
		return err
	}
	return requireLocked("user", users, userID)
}

func requireUser(ctx context.Context, store *repository.Store, id int64) error {
	ok, err := store.Users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("user with id %d not found", id)
	}
	return nil
}

func requireFilm(ctx context.Context, store *repository.Store, id int64) error {
	ok, err := store.Films.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("film with id %d not found", id)
	}
	return nil
}
