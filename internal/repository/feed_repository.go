package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
)

type FeedRepository interface {
	Append(ctx context.Context, e *model.FeedEvent) error
	// ListByUser 按写入顺序（event id 升序）返回
	ListByUser(ctx context.Context, userID int64) ([]model.FeedEvent, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByEntities(ctx context.Context, eventType model.EventType, entityIDs []int64) error
}

type feedRepository struct{ db *gorm.DB }

func NewFeedRepository(db *gorm.DB) FeedRepository { return &feedRepository{db: db} }

func (r *feedRepository) Append(ctx context.Context, e *model.FeedEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *feedRepository) ListByUser(ctx context.Context, userID int64) ([]model.FeedEvent, error) {
	res := []model.FeedEvent{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&res).Error
	return res, err
}

func (r *feedRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.FeedEvent{}).Error
}

func (r *feedRepository) DeleteByEntities(ctx context.Context, eventType model.EventType, entityIDs []int64) error {
	if len(entityIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("event_type = ? AND entity_id IN ?", eventType, entityIDs).
		Delete(&model.FeedEvent{}).Error
}
