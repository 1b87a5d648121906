package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/pkg/metrics"
)

// feedLog 在事务内追加动态，提交后统一发布
type feedLog struct {
	publisher FeedPublisher
	pending   []model.FeedEvent
}

func newFeedLog(publisher FeedPublisher) *feedLog {
	return &feedLog{publisher: publisher}
}

func (l *feedLog) add(ctx context.Context, tx *repository.Store, userID int64, t model.EventType, op model.Operation, entityID int64) error {
	e := model.FeedEvent{UserID: userID, EventType: t, Operation: op, EntityID: entityID}
	if err := tx.Feed.Append(ctx, &e); err != nil {
		return fmt.Errorf("append feed event: %w", err)
	}
	l.pending = append(l.pending, e)
	return nil
}

// commit 仅在事务成功后调用
func (l *feedLog) commit() {
	for _, e := range l.pending {
		metrics.RecordFeedEvent(string(e.EventType), string(e.Operation))
		if l.publisher != nil {
			l.publisher.Enqueue(e)
		}
	}
	l.pending = nil
}

// FeedService 用户动态
type FeedService interface {
	GetUserFeed(ctx context.Context, userID int64) ([]model.FeedEvent, error)
}

type feedService struct {
	store *repository.Store
}

func NewFeedService(store *repository.Store) FeedService {
	return &feedService{store: store}
}

func (s *feedService) GetUserFeed(ctx context.Context, userID int64) ([]model.FeedEvent, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.Feed.ListByUser(ctx, userID)
}
