package model

import "time"

const (
	ReviewLikeScore    = 1
	ReviewDislikeScore = -1
)

// Review 影评；Useful 为所有评分之和，读时聚合
type Review struct {
	ID         int64     `json:"reviewId" gorm:"primaryKey;autoIncrement"`
	Content    string    `json:"content" gorm:"type:text;not null" binding:"required,notblank"`
	IsPositive *bool     `json:"isPositive" gorm:"not null" binding:"required"`
	UserID     int64     `json:"userId" gorm:"not null;index" binding:"required"`
	FilmID     int64     `json:"filmId" gorm:"not null;index" binding:"required"`
	Useful     int64     `json:"useful" gorm:"-"`
	CreatedAt  time.Time `json:"-"`
}

func (Review) TableName() string { return "reviews" }

// ReviewRating 用户对影评的评价：+1 有用，-1 无用；(user_id, review_id) 唯一
type ReviewRating struct {
	UserID   int64 `gorm:"primaryKey;autoIncrement:false"`
	ReviewID int64 `gorm:"primaryKey;autoIncrement:false;index:idx_review_ratings_review"`
	Score    int   `gorm:"not null"`
}

func (ReviewRating) TableName() string { return "review_ratings" }
