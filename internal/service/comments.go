package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/pkg/logging"
	"github.com/postboard/postboard/pkg/telemetry"
)

// CommentForm is the comment creation payload. ReplyTo > 0 makes the
// comment a reply to another comment on the same post.
type CommentForm struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	ReplyTo int64  `json:"reply_to"`
}

// CommentUpdateForm is a partial comment update; only non-nil fields
// change.
type CommentUpdateForm struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// CommentService implements ownership-scoped CRUD over comments,
// including reply-tree validation, the moderation pipeline and
// auto-reply scheduling.
type CommentService struct {
	comments  CommentStore
	posts     PostStore
	moderator Moderator
	scheduler ReplyScheduler
	logger    *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(comments CommentStore, posts PostStore, moderator Moderator, scheduler ReplyScheduler) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		moderator: moderator,
		scheduler: scheduler,
		logger:    logging.WithComponent("comment-service"),
	}
}

func (s *CommentService) getPost(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, notFound("Post_not_found")
	}
	return post, nil
}

// Create persists a new comment on a post. A comment on an already
// blocked post inherits the block without re-running the classifier;
// otherwise blocked content is persisted, flagged, and then rejected
// with a forbidden error. If the post author opted in, an auto-reply is
// scheduled with the author's configured delay.
func (s *CommentService) Create(ctx context.Context, postID int64, form *CommentForm, actor *models.User) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.comment_create")
	defer span.End()

	if form.Title == "" {
		return nil, validationError("Title must not be empty")
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	replyTo := sql.NullInt64{}
	if form.ReplyTo > 0 {
		// The parent must be an existing comment on the same post.
		parent, err := s.comments.GetByID(ctx, postID, form.ReplyTo)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, notFound("Comment_not_found")
		}
		replyTo = sql.NullInt64{Int64: parent.ID, Valid: true}
	}

	blocked := post.IsBlocked
	if !blocked {
		blocked, err = s.moderator.Check(ctx, form.Title, form.Text)
		if err != nil {
			// Fail closed: nothing persists when the classifier is down.
			return nil, upstream(err)
		}
	}

	comment := &models.Comment{
		Title:     form.Title,
		Text:      sql.NullString{String: form.Text, Valid: form.Text != ""},
		PostID:    postID,
		UserID:    actor.ID,
		ReplyTo:   replyTo,
		IsBlocked: blocked,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.User = actor

	if blocked {
		s.logger.Warn("Comment blocked by moderation",
			zap.Int64("comment_id", comment.ID),
			zap.Int64("post_id", postID))
		return nil, forbidden("Your comment contains prohibited content and has been blocked.")
	}

	if post.Author != nil && post.Author.CommentsReply {
		s.scheduler.Schedule(postID, comment.ID, post.Author.ID, post.Author.AutoReplyDelay)
	}

	return comment, nil
}

// ListByPost returns all comments on a post with their authors joined
// in. The post must exist.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// GetByID returns a comment by id scoped to a post.
func (s *CommentService) GetByID(ctx context.Context, postID, id int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, notFound("Comment_not_found")
	}
	return comment, nil
}

// Update applies a partial update. Only the owner may update; any
// title or text change re-runs the moderation check unless the parent
// post is blocked, in which case the block is inherited.
func (s *CommentService) Update(ctx context.Context, postID, id int64, form *CommentUpdateForm, actor *models.User) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.comment_update")
	defer span.End()

	comment, err := s.GetByID(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, forbidden("You can update only your own comments")
	}

	changed := false
	if form.Title != nil && *form.Title != comment.Title {
		if *form.Title == "" {
			return nil, validationError("Title must not be empty")
		}
		comment.Title = *form.Title
		changed = true
	}
	if form.Text != nil && *form.Text != comment.Text.String {
		comment.Text = sql.NullString{String: *form.Text, Valid: *form.Text != ""}
		changed = true
	}

	if changed {
		post, err := s.getPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		blocked := post.IsBlocked
		if !blocked {
			blocked, err = s.moderator.Check(ctx, comment.Title, comment.Text.String)
			if err != nil {
				return nil, upstream(err)
			}
		}
		comment.IsBlocked = blocked
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	if comment.IsBlocked && changed {
		s.logger.Warn("Comment blocked by moderation on update", zap.Int64("comment_id", comment.ID))
		return nil, forbidden("Your comment contains prohibited content and has been blocked.")
	}

	return comment, nil
}

// Delete removes a comment and, explicitly, its replies. Only the
// owner may delete. Returns the pre-deletion snapshot.
func (s *CommentService) Delete(ctx context.Context, postID, id int64, actor *models.User) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.comment_delete")
	defer span.End()

	comment, err := s.GetByID(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, forbidden("You can delete only your own comments")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("Comment deleted",
		zap.Int64("comment_id", id),
		zap.Int64("post_id", postID))

	return comment, nil
}
