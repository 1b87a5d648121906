package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

// Store 聚合所有仓储；Transaction 内拿到的是绑定同一事务的 Store
type Store struct {
	db *gorm.DB

	Users          UserRepository
	Films          FilmRepository
	FriendRequests FriendRequestRepository
	Likes          LikeRepository
	Reviews        ReviewRepository
	Ratings        RatingRepository
	Feed           FeedRepository
	Directors      DirectorRepository
	Catalog        CatalogRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          NewUserRepository(db),
		Films:          NewFilmRepository(db),
		FriendRequests: NewFriendRequestRepository(db),
		Likes:          NewLikeRepository(db),
		Reviews:        NewReviewRepository(db),
		Ratings:        NewRatingRepository(db),
		Feed:           NewFeedRepository(db),
		Directors:      NewDirectorRepository(db),
		Catalog:        NewCatalogRepository(db),
	}
}

// Transaction 在一个数据库事务内执行 fn，fn 返回错误则回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB 底层连接（健康检查用）
func (s *Store) DB() *gorm.DB { return s.db }

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(format, args...)
	}
	return err
}

// lockIDs 对 table 中 ids 对应的行按 id 升序加 FOR UPDATE 锁，返回锁到的 id。
// 加锁顺序固定为 users、films、reviews、directors。
func lockIDs(ctx context.Context, db *gorm.DB, table string, ids []int64) ([]int64, error) {
	locked := make([]int64, 0, len(ids))
	if len(ids) == 0 {
		return locked, nil
	}
	err := db.WithContext(ctx).
		Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &locked).Error
	return locked, err
}

func exists(ctx context.Context, db *gorm.DB, table string, id int64) (bool, error) {
	var cnt int64
	if err := db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
