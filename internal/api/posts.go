package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/internal/service"
)

// postResponse is the public projection of a post with its author
// joined in.
type postResponse struct {
	ID     int64          `json:"id"`
	Title  string         `json:"title"`
	Text   *string        `json:"text"`
	Author models.Profile `json:"author"`
}

func newPostResponse(post *models.Post) postResponse {
	resp := postResponse{
		ID:    post.ID,
		Title: post.Title,
	}
	if post.Text.Valid {
		text := post.Text.String
		resp.Text = &text
	}
	if post.Author != nil {
		resp.Author = post.Author.Profile()
	}
	return resp
}

func (r *Router) createPost(c *gin.Context) {
	var form service.PostForm
	if !bindJSON(c, &form) {
		return
	}

	post, err := r.posts.Create(c.Request.Context(), &form, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(post))
}

func (r *Router) listPosts(c *gin.Context) {
	posts, err := r.posts.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, newPostResponse(post))
	}
	c.JSON(http.StatusOK, paginate(responses, parsePageParams(c)))
}

func (r *Router) getPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := r.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}

func (r *Router) updatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form service.PostUpdateForm
	if !bindJSON(c, &form) {
		return
	}

	post, err := r.posts.Update(c.Request.Context(), id, &form, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}

func (r *Router) deletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := r.posts.Delete(c.Request.Context(), id, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}
