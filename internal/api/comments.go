package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postboard/postboard/internal/models"
	"github.com/postboard/postboard/internal/service"
)

// commentResponse is the public projection of a comment with its
// author joined in.
type commentResponse struct {
	ID      int64          `json:"id"`
	Title   string         `json:"title"`
	Text    *string        `json:"text"`
	ReplyTo *int64         `json:"reply_to"`
	User    models.Profile `json:"user"`
}

func newCommentResponse(comment *models.Comment) commentResponse {
	resp := commentResponse{
		ID:    comment.ID,
		Title: comment.Title,
	}
	if comment.Text.Valid {
		text := comment.Text.String
		resp.Text = &text
	}
	if comment.ReplyTo.Valid {
		replyTo := comment.ReplyTo.Int64
		resp.ReplyTo = &replyTo
	}
	if comment.User != nil {
		resp.User = comment.User.Profile()
	}
	return resp
}

func (r *Router) createComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form service.CommentForm
	if !bindJSON(c, &form) {
		return
	}

	comment, err := r.comments.Create(c.Request.Context(), postID, &form, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (r *Router) listComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := r.comments.ListByPost(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, newCommentResponse(comment))
	}
	c.JSON(http.StatusOK, paginate(responses, parsePageParams(c)))
}

func (r *Router) getComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "cid")
	if !ok {
		return
	}

	comment, err := r.comments.GetByID(c.Request.Context(), postID, commentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (r *Router) updateComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "cid")
	if !ok {
		return
	}
	var form service.CommentUpdateForm
	if !bindJSON(c, &form) {
		return
	}

	comment, err := r.comments.Update(c.Request.Context(), postID, commentID, &form, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (r *Router) deleteComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "cid")
	if !ok {
		return
	}

	comment, err := r.comments.Delete(c.Request.Context(), postID, commentID, currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(comment))
}
