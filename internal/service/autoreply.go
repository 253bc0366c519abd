package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/pkg/config"
	"github.com/postboard/postboard/pkg/logging"
)

// ReplyScheduler schedules a delayed auto-reply to a freshly created
// comment.
type ReplyScheduler interface {
	Schedule(postID, commentID, authorID int64, delayMinutes int)
}

// AutoReplyScheduler fires single-shot, delayed auto-replies. Each
// scheduled task waits out its delay independently, re-checks that the
// original comment still exists, and persists the reply as the post
// author. Failures are logged and swallowed; the triggering request has
// already returned.
type AutoReplyScheduler struct {
	comments  CommentStore
	moderator Moderator
	cfg       config.AutoReplyConfig
	logger    *zap.Logger

	mu     sync.Mutex
	timers map[int64]*time.Timer

	// delayUnit is a minute in production; tests shrink it.
	delayUnit   time.Duration
	fireTimeout time.Duration
}

// NewAutoReplyScheduler creates a new auto-reply scheduler
func NewAutoReplyScheduler(comments CommentStore, moderator Moderator, cfg config.AutoReplyConfig) *AutoReplyScheduler {
	return &AutoReplyScheduler{
		comments:    comments,
		moderator:   moderator,
		cfg:         cfg,
		logger:      logging.WithComponent("auto-reply"),
		timers:      make(map[int64]*time.Timer),
		delayUnit:   time.Minute,
		fireTimeout: 30 * time.Second,
	}
}

// Schedule arms a single-shot reply to commentID after delayMinutes.
// authorID is the post author on whose behalf the reply is written.
func (s *AutoReplyScheduler) Schedule(postID, commentID, authorID int64, delayMinutes int) {
	delay := time.Duration(delayMinutes) * s.delayUnit

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[commentID] = time.AfterFunc(delay, func() {
		s.fire(postID, commentID, authorID)
	})

	s.logger.Info("Auto-reply scheduled",
		zap.Int64("comment_id", commentID),
		zap.Int("delay_minutes", delayMinutes))
}

func (s *AutoReplyScheduler) fire(postID, commentID, authorID int64) {
	s.mu.Lock()
	delete(s.timers, commentID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.fireTimeout)
	defer cancel()

	// The original comment may have been deleted while we waited.
	original, err := s.comments.GetByID(ctx, postID, commentID)
	if err != nil {
		s.logger.Error("Auto-reply lookup failed", zap.Int64("comment_id", commentID), zap.Error(err))
		return
	}
	if original == nil {
		s.logger.Debug("Auto-reply target gone", zap.Int64("comment_id", commentID))
		return
	}

	text := s.cfg.Template
	if s.cfg.Generated {
		generated, err := s.moderator.GenerateReply(ctx, original.Title, original.Text.String)
		if err != nil {
			s.logger.Warn("Auto-reply generation failed, using template",
				zap.Int64("comment_id", commentID), zap.Error(err))
		} else {
			text = generated
		}
	}

	reply := &models.Comment{
		Title:   s.cfg.Title,
		Text:    sql.NullString{String: text, Valid: true},
		PostID:  original.PostID,
		UserID:  authorID,
		ReplyTo: sql.NullInt64{Int64: original.ID, Valid: true},
	}
	if err := s.comments.Create(ctx, reply); err != nil {
		s.logger.Error("Auto-reply insert failed", zap.Int64("comment_id", commentID), zap.Error(err))
		return
	}

	s.logger.Info("Auto-reply sent",
		zap.Int64("comment_id", commentID),
		zap.Int64("reply_id", reply.ID))
}

// Stop cancels all pending auto-replies. Used on shutdown; replies
// whose timers already fired are unaffected.
func (s *AutoReplyScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending reports the number of armed timers.
func (s *AutoReplyScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
