package model

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventLike   EventType = "LIKE"
	EventReview EventType = "REVIEW"
	EventFriend EventType = "FRIEND"
)

type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// FeedEvent 用户动态，只追加
type FeedEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index:idx_feed_user"`
	EventType EventType `gorm:"type:varchar(16);not null"`
	Operation Operation `gorm:"type:varchar(16);not null"`
	EntityID  int64     `gorm:"not null;index:idx_feed_entity"`
	CreatedAt time.Time `gorm:"not null"`
}

func (FeedEvent) TableName() string { return "feed_events" }

// MarshalJSON 时间戳输出为毫秒
func (e FeedEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID   int64     `json:"eventId"`
		UserID    int64     `json:"userId"`
		EventType EventType `json:"eventType"`
		Operation Operation `json:"operation"`
		EntityID  int64     `json:"entityId"`
		Timestamp int64     `json:"timestamp"`
	}{e.ID, e.UserID, e.EventType, e.Operation, e.EntityID, e.CreatedAt.UnixMilli()})
}
