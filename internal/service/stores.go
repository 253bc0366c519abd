package service

import (
	"context"
	"time"

	"github.com/postboard/postboard/internal/models"
)

// UserStore is the persistence surface the user service consumes.
// *db.UserRepository implements it.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// PostStore is the persistence surface the post service consumes.
// *db.PostRepository implements it.
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByTitle(ctx context.Context, title string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
}

// CommentStore is the persistence surface the comment, analytics and
// auto-reply services consume. *db.CommentRepository implements it.
type CommentStore interface {
	GetByID(ctx context.Context, postID, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
	DailyBreakdown(ctx context.Context, from, toExclusive time.Time) ([]models.DailyCommentStats, error)
	CountInRange(ctx context.Context, from, toExclusive time.Time) (int64, error)
}

// Moderator classifies content and generates auto-reply bodies.
// *moderation.Client implements it.
type Moderator interface {
	Check(ctx context.Context, title, text string) (bool, error)
	GenerateReply(ctx context.Context, title, text string) (string, error)
}
