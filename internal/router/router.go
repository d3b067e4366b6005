package router

import (
	"os"

	"byteandbeyond/internal/handlers"
	"byteandbeyond/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register wires every API route onto the engine.
func Register(r *gin.Engine) {
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	replyHandler := handlers.NewReplyHandler()
	reactionHandler := handlers.NewReactionHandler()
	categoryHandler := handlers.NewCategoryHandler()
	mediaHandler := handlers.NewMediaHandler()
	newsHandler := handlers.NewNewsHandler()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.Authenticate(), authHandler.GetProfile)
		auth.PUT("/me", middleware.Authenticate(), authHandler.UpdateProfile)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", middleware.OptionalAuth(), postHandler.List)
		posts.GET("/:id", middleware.OptionalAuth(), postHandler.Get)
		posts.GET("/:id/related", postHandler.Related)
		posts.GET("/user/:userId", middleware.OptionalAuth(), postHandler.UserPosts)
		posts.POST("", middleware.Authenticate(), postHandler.Create)
		posts.PUT("/:id", middleware.Authenticate(), postHandler.Update)
		posts.DELETE("/:id", middleware.Authenticate(), postHandler.Delete)
		posts.PATCH("/:id/hide", middleware.Authenticate(), postHandler.ToggleHide)
		posts.POST("/:id/share", postHandler.Share)

		posts.GET("/:id/comments", middleware.OptionalAuth(), commentHandler.ListForPost)
		posts.POST("/:id/comments", middleware.Authenticate(), commentHandler.Create)
		posts.GET("/:id/commenters", middleware.OptionalAuth(), commentHandler.Commenters)
	}

	comments := api.Group("/comments")
	{
		comments.PUT("/:id", middleware.Authenticate(), commentHandler.Update)
		comments.DELETE("/:id", middleware.Authenticate(), commentHandler.Delete)
		comments.GET("/:id/replies", middleware.OptionalAuth(), replyHandler.ListForComment)
		comments.POST("/:id/replies", middleware.Authenticate(), replyHandler.Create)
	}

	replies := api.Group("/replies")
	{
		replies.PUT("/:id", middleware.Authenticate(), replyHandler.Update)
		replies.DELETE("/:id", middleware.Authenticate(), replyHandler.Delete)
	}

	reactions := api.Group("/reactions")
	{
		reactions.POST("", middleware.Authenticate(), reactionHandler.Toggle)
		reactions.DELETE("/:id", middleware.Authenticate(), reactionHandler.Remove)
		reactions.GET("/my-interactions", middleware.Authenticate(), reactionHandler.MyInteractions)
		reactions.GET("/:targetType/:targetId", reactionHandler.ListForTarget)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", middleware.Authenticate(), categoryHandler.Create)
	}

	media := api.Group("/media", middleware.Authenticate())
	{
		media.POST("", mediaHandler.Upload)
		media.GET("", mediaHandler.List)
		media.PUT("/:id", mediaHandler.Update)
		media.DELETE("/:id", mediaHandler.Delete)
	}

	news := api.Group("/news")
	{
		news.GET("", newsHandler.Headlines)
		news.GET("/feeds", newsHandler.Feeds)
		news.GET("/read", newsHandler.Read)
	}
}
