package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/pkg/logging"
	"github.com/postboard/postboard/pkg/telemetry"
)

// PostForm is the post creation payload.
type PostForm struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PostUpdateForm is a partial post update; only non-nil fields change.
type PostUpdateForm struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// PostService implements ownership-scoped CRUD over posts with the
// moderation pipeline applied on create and update.
type PostService struct {
	posts     PostStore
	moderator Moderator
	logger    *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, moderator Moderator) *PostService {
	return &PostService{
		posts:     posts,
		moderator: moderator,
		logger:    logging.WithComponent("post-service"),
	}
}

// Create persists a new post owned by the actor. Blocked content is
// still persisted, flagged, and then rejected with a forbidden error.
func (s *PostService) Create(ctx context.Context, form *PostForm, actor *models.User) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post_create")
	defer span.End()

	if form.Title == "" {
		return nil, validationError("Title must not be empty")
	}

	existing, err := s.posts.GetByTitle(ctx, form.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("There is already another post with this title")
	}

	blocked, err := s.moderator.Check(ctx, form.Title, form.Text)
	if err != nil {
		// Fail closed: nothing persists when the classifier is down.
		return nil, upstream(err)
	}

	post := &models.Post{
		Title:     form.Title,
		Text:      sql.NullString{String: form.Text, Valid: form.Text != ""},
		UserID:    actor.ID,
		IsBlocked: blocked,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = actor

	if blocked {
		s.logger.Warn("Post blocked by moderation",
			zap.Int64("post_id", post.ID),
			zap.Int64("user_id", actor.ID))
		return nil, forbidden("Your post contains prohibited content and has been blocked.")
	}

	return post, nil
}

// List returns all posts with their authors joined in.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.posts.List(ctx)
}

// GetByID returns a post by id with its author joined in.
func (s *PostService) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, notFound("Post_not_found")
	}
	return post, nil
}

// Update applies a partial update. Only the owner may update; any
// title or text change re-runs the moderation check, and a blocking
// verdict is persisted before the forbidden error is returned.
func (s *PostService) Update(ctx context.Context, id int64, form *PostUpdateForm, actor *models.User) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post_update")
	defer span.End()

	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor.ID {
		return nil, forbidden("You can update only your own posts")
	}

	changed := false
	if form.Title != nil && *form.Title != post.Title {
		if *form.Title == "" {
			return nil, validationError("Title must not be empty")
		}
		existing, err := s.posts.GetByTitle(ctx, *form.Title)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != post.ID {
			return nil, conflict("There is already another post with this title")
		}
		post.Title = *form.Title
		changed = true
	}
	if form.Text != nil && *form.Text != post.Text.String {
		post.Text = sql.NullString{String: *form.Text, Valid: *form.Text != ""}
		changed = true
	}

	if changed {
		blocked, err := s.moderator.Check(ctx, post.Title, post.Text.String)
		if err != nil {
			return nil, upstream(err)
		}
		post.IsBlocked = blocked
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if post.IsBlocked && changed {
		s.logger.Warn("Post blocked by moderation on update", zap.Int64("post_id", post.ID))
		return nil, forbidden("Your post contains prohibited content and has been blocked.")
	}

	return post, nil
}

// Delete removes a post and, explicitly, its comments. Only the owner
// may delete. Returns the pre-deletion snapshot.
func (s *PostService) Delete(ctx context.Context, id int64, actor *models.User) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post_delete")
	defer span.End()

	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor.ID {
		return nil, forbidden("You can delete only your own posts")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("Post deleted", zap.Int64("post_id", id), zap.Int64("user_id", actor.ID))

	return post, nil
}
