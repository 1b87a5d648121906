package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/filmgraph/internal/friendship"
	"github.com/d60-Lab/filmgraph/internal/model"
)

type FriendRequestRepository interface {
	// Get 返回 userID -> friendID 方向记录的状态，无记录为 friendship.None
	Get(ctx context.Context, userID, friendID int64) (friendship.State, error)
	// Upsert 写入或覆盖单方向记录
	Upsert(ctx context.Context, userID, friendID int64, status model.FriendRequestStatus) error
	Delete(ctx context.Context, userID, friendID int64) error
	// ListFriendIDs 已互加的好友（任一方向 approved），id 升序
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	// ListPending 未确认的申请：outgoing 为我发出的，incoming 为发给我的
	ListPending(ctx context.Context, userID int64) (outgoing, incoming []int64, err error)
	DeleteByUser(ctx context.Context, userID int64) error
}

type friendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Get(ctx context.Context, userID, friendID int64) (friendship.State, error) {
	var fr model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Take(&fr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return friendship.None, nil
	}
	if err != nil {
		return friendship.None, err
	}
	return friendship.FromStatus(fr.Status), nil
}

func (r *friendRequestRepository) Upsert(ctx context.Context, userID, friendID int64, status model.FriendRequestStatus) error {
	fr := &model.FriendRequest{UserID: userID, FriendID: friendID, Status: status}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(fr).Error
}

func (r *friendRequestRepository) Delete(ctx context.Context, userID, friendID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&model.FriendRequest{}).Error
}

func (r *friendRequestRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT friend_id AS id FROM friend_requests WHERE user_id = ? AND status = ?
		UNION
		SELECT user_id AS id FROM friend_requests WHERE friend_id = ? AND status = ?
		ORDER BY id
	`, userID, model.FriendRequestApproved, userID, model.FriendRequestApproved).Scan(&ids).Error
	return ids, err
}

func (r *friendRequestRepository) ListPending(ctx context.Context, userID int64) ([]int64, []int64, error) {
	var outgoing, incoming []int64
	if err := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("user_id = ? AND status = ?", userID, model.FriendRequestUnapproved).
		Order("friend_id").
		Pluck("friend_id", &outgoing).Error; err != nil {
		return nil, nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("friend_id = ? AND status = ?", userID, model.FriendRequestUnapproved).
		Order("user_id").
		Pluck("user_id", &incoming).Error; err != nil {
		return nil, nil, err
	}
	return outgoing, incoming, nil
}

func (r *friendRequestRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Delete(&model.FriendRequest{}).Error
}
