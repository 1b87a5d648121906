package model

// User 用户
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Email    string `json:"email" gorm:"type:varchar(255);not null" binding:"required,email"`
	Login    string `json:"login" gorm:"type:varchar(64);not null" binding:"required,nowhitespace"`
	Name     string `json:"name" gorm:"type:varchar(255)"`
	Birthday Date   `json:"birthday" binding:"required,pastdate"`
}

func (User) TableName() string { return "users" }

// Normalize 名字为空时使用登录名
func (u *User) Normalize() {
	if u.Name == "" {
		u.Name = u.Login
	}
}
