package service

import (
	"context"
	"sync"
	"time"

	"github.com/postboard/postboard/internal/models"
)

// In-memory stores backing the service tests.

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeCommentStore struct {
	// mu guards comments; scheduler tests touch the store from timer
	// goroutines.
	mu       sync.Mutex
	comments map[int64]*models.Comment
	nextID   int64

	breakdownRows   []models.DailyCommentStats
	rangeTotal      int64
	breakdownCalls  int
	countRangeCalls int
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[int64]*models.Comment)}
}

func (f *fakeCommentStore) GetByID(_ context.Context, postID, id int64) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.comments[id]; ok && c.PostID == postID {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCommentStore) ListByPost(_ context.Context, postID int64) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var comments []*models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	return comments, nil
}

func (f *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	comment.ID = f.nextID
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentStore) Update(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for cid, c := range f.comments {
		if c.ReplyTo.Valid && c.ReplyTo.Int64 == id {
			delete(f.comments, cid)
		}
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments)
}

func (f *fakeCommentStore) all() []*models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	comments := make([]*models.Comment, 0, len(f.comments))
	for _, c := range f.comments {
		copied := *c
		comments = append(comments, &copied)
	}
	return comments
}

func (f *fakeCommentStore) DailyBreakdown(_ context.Context, _, _ time.Time) ([]models.DailyCommentStats, error) {
	f.breakdownCalls++
	return f.breakdownRows, nil
}

func (f *fakeCommentStore) CountInRange(_ context.Context, _, _ time.Time) (int64, error) {
	f.countRangeCalls++
	return f.rangeTotal, nil
}

type fakePostStore struct {
	posts    map[int64]*models.Post
	comments *fakeCommentStore
	nextID   int64
}

func newFakePostStore(comments *fakeCommentStore) *fakePostStore {
	return &fakePostStore{posts: make(map[int64]*models.Post), comments: comments}
}

func (f *fakePostStore) GetByID(_ context.Context, id int64) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePostStore) GetByTitle(_ context.Context, title string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.Title == title {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) List(_ context.Context) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		copied := *p
		posts = append(posts, &copied)
	}
	return posts, nil
}

func (f *fakePostStore) Create(_ context.Context, post *models.Post) error {
	f.nextID++
	post.ID = f.nextID
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostStore) Update(_ context.Context, post *models.Post) error {
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id int64) error {
	if f.comments != nil {
		f.comments.mu.Lock()
		for cid, c := range f.comments.comments {
			if c.PostID == id {
				delete(f.comments.comments, cid)
			}
		}
		f.comments.mu.Unlock()
	}
	delete(f.posts, id)
	return nil
}

type fakeModerator struct {
	blocked bool
	err     error
	reply   string
	calls   int
}

func (f *fakeModerator) Check(_ context.Context, _, _ string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.blocked, nil
}

func (f *fakeModerator) GenerateReply(_ context.Context, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type scheduledReply struct {
	postID    int64
	commentID int64
	authorID  int64
	delay     int
}

type fakeScheduler struct {
	scheduled []scheduledReply
}

func (f *fakeScheduler) Schedule(postID, commentID, authorID int64, delayMinutes int) {
	f.scheduled = append(f.scheduled, scheduledReply{postID, commentID, authorID, delayMinutes})
}
