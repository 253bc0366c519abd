package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/auth"
	"github.com/postboard/postboard/internal/service"
	"github.com/postboard/postboard/pkg/logging"
)

// Router wires the HTTP surface to the services.
type Router struct {
	users     *service.UserService
	posts     *service.PostService
	comments  *service.CommentService
	analytics *service.AnalyticsService
	tokens    *auth.TokenService
	logger    *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(
	users *service.UserService,
	posts *service.PostService,
	comments *service.CommentService,
	analytics *service.AnalyticsService,
	tokens *auth.TokenService,
) *Router {
	return &Router{
		users:     users,
		posts:     posts,
		comments:  comments,
		analytics: analytics,
		tokens:    tokens,
		logger:    logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	users := engine.Group("/users")
	{
		users.POST("/", r.signup)
		users.POST("/login", r.login)
		users.GET("/", r.listUsers)
		users.GET("/me", r.authRequired(), r.me)
		users.GET("/:id", r.getUser)
		users.PUT("/:id", r.authRequired(), r.updateUser)
		users.DELETE("/:id", r.authRequired(), r.deleteUser)
	}

	posts := engine.Group("/posts")
	{
		posts.POST("/", r.authRequired(), r.createPost)
		posts.GET("/", r.authRequired(), r.listPosts)
		posts.GET("/:id", r.getPost)
		posts.PUT("/:id", r.authRequired(), r.updatePost)
		posts.DELETE("/:id", r.authRequired(), r.deletePost)

		comments := posts.Group("/:id/comments", r.authRequired())
		{
			comments.POST("", r.createComment)
			comments.GET("", r.listComments)
			comments.GET("/:cid", r.getComment)
			comments.PUT("/:cid", r.updateComment)
			comments.DELETE("/:cid", r.deleteComment)
		}
	}

	engine.GET("/api/comments-daily-breakdown", r.dailyBreakdown)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "postboard-api",
	})
}
