package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Lock 按 id 升序对用户行加行锁，返回实际锁到的 id
	Lock(ctx context.Context, ids ...int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"email":    u.Email,
		"login":    u.Login,
		"name":     u.Name,
		"birthday": u.Birthday,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user with id %d not found", u.ID)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "user with id %d not found", id)
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var res []model.User
	err := r.db.WithContext(ctx).Order("id").Find(&res).Error
	return res, err
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	res := []model.User{}
	if len(ids) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&res).Error
	return res, err
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "users", id)
}

func (r *userRepository) Lock(ctx context.Context, ids ...int64) ([]int64, error) {
	return lockIDs(ctx, r.db, "users", ids)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}
