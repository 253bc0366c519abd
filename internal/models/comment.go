package models

import (
	"database/sql"
	"time"
)

// Comment represents a comment on a post. ReplyTo links replies to their
// parent comment, forming a tree rooted at top-level comments.
type Comment struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Title     string         `gorm:"type:varchar(255);not null;column:title"`
	Text      sql.NullString `gorm:"type:text;column:text"`
	PostID    int64          `gorm:"not null;index;column:post_id"`
	UserID    int64          `gorm:"not null;index;column:user_id"`
	ReplyTo   sql.NullInt64  `gorm:"index;column:reply_to"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;column:created_at"`

	// IsBlocked is derived exclusively by the moderation pipeline.
	IsBlocked bool `gorm:"not null;default:false;column:is_blocked"`

	// Relationships
	Post    *Post     `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	User    *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Parent  *Comment  `gorm:"foreignKey:ReplyTo;references:ID;constraint:OnDelete:CASCADE"`
	Replies []Comment `gorm:"foreignKey:ReplyTo;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// DailyCommentStats is one calendar-day bucket of the comments daily
// breakdown. Days without comments do not produce a bucket.
type DailyCommentStats struct {
	Date    time.Time `gorm:"column:date"`
	Created int64     `gorm:"column:created_comments"`
	Blocked int64     `gorm:"column:blocked_comments"`
	Total   int64     `gorm:"column:total"`
}
