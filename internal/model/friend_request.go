package model

import "time"

// FriendRequestStatus 好友申请状态
type FriendRequestStatus string

const (
	FriendRequestUnapproved FriendRequestStatus = "unapproved"
	FriendRequestApproved   FriendRequestStatus = "approved"
)

// FriendRequest 好友申请（UserID 向 FriendID 发起）。
// 每个有序对最多一行；双方互加后这一行变为 approved。
type FriendRequest struct {
	UserID    int64               `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	FriendID  int64               `json:"friendId" gorm:"primaryKey;autoIncrement:false;index:idx_friend_requests_friend"`
	Status    FriendRequestStatus `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func (FriendRequest) TableName() string { return "friend_requests" }

// PendingRequests 用户待处理的好友申请
type PendingRequests struct {
	Outgoing []User `json:"outgoing"`
	Incoming []User `json:"incoming"`
}
