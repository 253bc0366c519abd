package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/auth"
	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/pkg/logging"
	"github.com/postboard/postboard/pkg/telemetry"
)

const minPasswordLength = 8

// SignupForm is the raw signup payload.
type SignupForm struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
	CommentsReply  bool   `json:"comments_reply"`
	AutoReplyDelay int    `json:"auto_reply_delay"`
}

// UserUpdateForm is a partial user update; only non-nil fields change.
type UserUpdateForm struct {
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	CommentsReply  *bool   `json:"comments_reply"`
	AutoReplyDelay *int    `json:"auto_reply_delay"`
}

// UserService implements signup, login and self-service account
// management.
type UserService struct {
	users      UserStore
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users UserStore, bcryptCost int) *UserService {
	return &UserService{
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logging.WithComponent("user-service"),
	}
}

// ValidateSignup checks the signup payload without touching the store.
func ValidateSignup(form *SignupForm) error {
	if form.Username == "" {
		return validationError("Please provide a username.")
	}
	if !validEmail(form.Email) {
		return validationError("Please provide a valid email.")
	}
	if len(form.Password) < minPasswordLength {
		return validationError("Password must contain at least 8 characters")
	}
	if form.Password != form.PasswordRepeat {
		return validationError("Passwords do not match")
	}
	if form.AutoReplyDelay < 0 {
		return validationError("Auto-reply delay must not be negative")
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// Signup validates the payload, hashes the password and persists the
// new user. Username and email must both be unique.
func (s *UserService) Signup(ctx context.Context, form *SignupForm) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user_signup")
	defer span.End()

	if err := ValidateSignup(form); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("There is already another user with this username")
	}

	existing, err = s.users.GetByEmail(ctx, form.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict("There is already another user with this email")
	}

	digest, err := auth.HashPassword(form.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       form.Username,
		Email:          form.Email,
		Password:       digest,
		CommentsReply:  form.CommentsReply,
		AutoReplyDelay: form.AutoReplyDelay,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return user, nil
}

// Authenticate checks email and password and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user_authenticate")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, unauthorized("Incorrect email")
	}
	if !auth.CheckPassword(password, user.Password) {
		return nil, unauthorized("Incorrect password")
	}
	return user, nil
}

// GetByEmail returns the user a verified token subject resolves to.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, unauthorized("Incorrect email")
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// GetByID returns a user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User_not_found")
	}
	return user, nil
}

// Update applies a partial self-service update. Only the account owner
// may change their own record.
func (s *UserService) Update(ctx context.Context, id int64, form *UserUpdateForm, actor *models.User) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user_update")
	defer span.End()

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != actor.ID {
		return nil, forbidden("You can update only your own account")
	}

	if form.Username != nil && *form.Username != user.Username {
		if *form.Username == "" {
			return nil, validationError("Please provide a username.")
		}
		existing, err := s.users.GetByUsername(ctx, *form.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, conflict("There is already another user with this username")
		}
		user.Username = *form.Username
	}
	if form.Password != nil {
		if len(*form.Password) < minPasswordLength {
			return nil, validationError("Password must contain at least 8 characters")
		}
		digest, err := auth.HashPassword(*form.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = digest
	}
	if form.CommentsReply != nil {
		user.CommentsReply = *form.CommentsReply
	}
	if form.AutoReplyDelay != nil {
		if *form.AutoReplyDelay < 0 {
			return nil, validationError("Auto-reply delay must not be negative")
		}
		user.AutoReplyDelay = *form.AutoReplyDelay
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and everything it owns. Only the account
// owner may delete their own record. Returns the pre-deletion snapshot.
func (s *UserService) Delete(ctx context.Context, id int64, actor *models.User) (*models.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user_delete")
	defer span.End()

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != actor.ID {
		return nil, forbidden("You can delete only your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("User deleted", zap.Int64("user_id", id))

	return user, nil
}
