package model

import "time"

// Like 用户点赞电影，(user_id, film_id) 唯一
type Like struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	FilmID    int64 `gorm:"primaryKey;autoIncrement:false;index:idx_likes_film"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
