package models

import (
	"time"
)

// User represents a registered author
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex:users_username_ux;column:username"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:users_email_ux;column:email"`
	Password     string    `gorm:"type:varchar(255);not null;column:password"` // bcrypt digest, never plaintext
	RegisteredAt time.Time `gorm:"not null;autoCreateTime;column:registered_at"`

	// Auto-reply opt-in
	CommentsReply  bool `gorm:"not null;default:false;column:comments_reply"`
	AutoReplyDelay int  `gorm:"not null;default:0;column:auto_reply_delay"` // minutes

	// Relationships
	Posts    []Post    `gorm:"foreignKey:UserID;references:ID"`
	Comments []Comment `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Profile is the public projection of a user, joined into post and
// comment responses.
type Profile struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	CommentsReply  bool   `json:"comments_reply"`
	AutoReplyDelay int    `json:"auto_reply_delay"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		CommentsReply:  u.CommentsReply,
		AutoReplyDelay: u.AutoReplyDelay,
	}
}
