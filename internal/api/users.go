package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/internal/service"
)

// pathID parses a numeric path parameter, aborting with 422 on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid " + name + " path parameter"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
		return false
	}
	return true
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r *Router) signup(c *gin.Context) {
	var form service.SignupForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := r.users.Signup(c.Request.Context(), &form)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.Profile())
}

func (r *Router) login(c *gin.Context) {
	var form loginForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := r.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	access, err := r.tokens.IssueAccessToken(user.Email)
	if err != nil {
		r.logger.Error("Failed to issue access token", zap.Error(err))
		abortWithError(c, err)
		return
	}
	refresh, err := r.tokens.IssueRefreshToken(user.Email)
	if err != nil {
		r.logger.Error("Failed to issue refresh token", zap.Error(err))
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		TokenType:    "Bearer",
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (r *Router) listUsers(c *gin.Context) {
	users, err := r.users.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	c.JSON(http.StatusOK, paginate(profiles, parsePageParams(c)))
}

func (r *Router) getUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := r.users.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}

func (r *Router) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).Profile())
}

func (r *Router) updateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form service.UserUpdateForm
	if !bindJSON(c, &form) {
		return
	}

	user, err := r.users.Update(c.Request.Context(), id, &form, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}

func (r *Router) deleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := r.users.Delete(c.Request.Context(), id, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}
