package models

import (
	"database/sql"
	"time"
)

// Post represents a blog post
type Post struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Title     string         `gorm:"type:varchar(255);not null;uniqueIndex:posts_title_ux;column:title"`
	Text      sql.NullString `gorm:"type:text;column:text"`
	UserID    int64          `gorm:"not null;index;column:user_id"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;column:created_at"`

	// IsBlocked is derived exclusively by the moderation pipeline.
	IsBlocked bool `gorm:"not null;default:false;column:is_blocked"`

	// Relationships
	Author   *User     `gorm:"foreignKey:UserID;references:ID"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
