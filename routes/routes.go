package routes

import (
	"paper-share-api/controllers"
	"paper-share-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/signup", controllers.Signup)
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Paper Share API is running",
				})
			})
		}

		// Read routes: anonymous actors may search and view whatever is
		// not private; a valid token additionally reveals owned items.
		read := v1.Group("")
		read.Use(middleware.OptionalAuthMiddleware())
		{
			read.GET("/get_user_loggedin", controllers.GetUserLoggedIn)

			read.GET("/search_paper", controllers.SearchPapers)
			read.GET("/paper_detail", controllers.GetPaperDetail)
			read.GET("/paper_content", controllers.GetPaperContent)
			read.GET("/search_paper_comment", controllers.SearchPaperComments)
			read.GET("/get_paper_review", controllers.GetPaperReview)
			read.GET("/get_paper_citations", controllers.GetPaperCitations)

			read.GET("/search_paperset", controllers.SearchPaperSets)
			read.GET("/get_papers_paperset", controllers.GetPaperSetPapers)
			read.GET("/search_paperset_comment", controllers.SearchPaperSetComments)
			read.GET("/get_paperset_review", controllers.GetPaperSetReview)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Account
			protected.POST("/logout", controllers.Logout)
			protected.POST("/logoff", controllers.DeleteAccount)
			protected.GET("/get_user_detail", controllers.GetUserDetail)

			// Papers
			protected.POST("/insert_paper", controllers.InsertPaper)
			protected.POST("/delete_paper", controllers.DeletePaper)
			protected.POST("/modify_paper", controllers.ModifyPaper)
			protected.POST("/comment_paper", controllers.CommentPaper)
			protected.POST("/review_paper", controllers.ReviewPaper)
			protected.POST("/cite_paper", controllers.CitePaper)

			// Paper sets
			protected.POST("/insert_paperset", controllers.InsertPaperSet)
			protected.POST("/change_paperset", controllers.ChangePaperSet)
			protected.POST("/delete_paperset", controllers.DeletePaperSet)
			protected.POST("/add_to_paperset", controllers.AddToPaperSet)
			protected.POST("/delete_from_paperset", controllers.DeleteFromPaperSet)
			protected.POST("/comment_paperset", controllers.CommentPaperSet)
			protected.POST("/review_paperset", controllers.ReviewPaperSet)
		}
	}
}
