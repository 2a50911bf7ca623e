package models

import (
	"time"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username  string     `gorm:"column:username;size:150;uniqueIndex" json:"username"`
	Email     string     `gorm:"column:email;size:254;uniqueIndex" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreateAt  time.Time  `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt  time.Time  `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
}

// UserToken stores refresh and password-reset tokens issued to a user.
type UserToken struct {
	TokenID    int       `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID     int       `gorm:"column:user_id;index" json:"user_id"`
	TokenType  string    `gorm:"column:token_type;size:32" json:"token_type"` // "refresh" or "password_reset"
	Token      string    `gorm:"column:token;size:255" json:"-"`
	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked  bool      `gorm:"column:is_revoked;default:false" json:"is_revoked"`
	DeviceInfo string    `gorm:"column:device_info;size:255" json:"device_info"`
	IPAddress  string    `gorm:"column:ip_address;size:45" json:"ip_address"`
	UserAgent  string    `gorm:"column:user_agent;size:512" json:"user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (UserToken) TableName() string {
	return "user_tokens"
}
