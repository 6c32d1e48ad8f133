package routes

import (
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/auth"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/chat"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/handlers"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/middleware"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/realtime"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the router needs.
type Deps struct {
	DB      *gorm.DB
	Tokens  *auth.Manager
	Stores  *store.Stores
	Objects storage.ObjectStore
	Chat    *chat.Service
	Hub     *realtime.Hub
	Log     *zap.Logger
}

// Setup builds the gin engine with all routes attached.
func Setup(d Deps) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Mortgage broker API is running",
		})
	})

	authHandler := handlers.NewAuthHandler(d.DB, d.Tokens)
	contacts := handlers.NewContactHandler(d.Stores)
	pipeline := handlers.NewPipelineHandler(d.Stores)
	documents := handlers.NewDocumentHandler(d.Stores, d.Objects)
	engagement := handlers.NewEngagementHandler(d.Stores)
	chatHandler := handlers.NewChatHandler(d.Chat)
	feed := handlers.NewFeedHandler(d.DB)
	ws := handlers.NewWSHandler(d.Hub, d.Log)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		// Signed downloads authenticate via the HMAC token in the query string
		api.GET("/files/*path", documents.ServeFile)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuth(d.Tokens))
	{
		// Contact endpoints
		protectedRoutes.GET("/clients", contacts.ListClients)
		protectedRoutes.POST("/clients", contacts.CreateClient)
		protectedRoutes.PUT("/clients/:id", contacts.UpdateClient)
		protectedRoutes.DELETE("/clients/:id", contacts.DeleteClient)
		protectedRoutes.GET("/lenders", contacts.ListLenders)
		protectedRoutes.POST("/lenders", contacts.CreateLender)
		protectedRoutes.PUT("/lenders/:id", contacts.UpdateLender)
		protectedRoutes.DELETE("/lenders/:id", contacts.DeleteLender)
		protectedRoutes.GET("/realtors", contacts.ListRealtors)
		protectedRoutes.POST("/realtors", contacts.CreateRealtor)
		protectedRoutes.PUT("/realtors/:id", contacts.UpdateRealtor)
		protectedRoutes.DELETE("/realtors/:id", contacts.DeleteRealtor)

		// Pipeline endpoints
		protectedRoutes.GET("/loans", pipeline.ListLoans)
		protectedRoutes.POST("/loans", pipeline.CreateLoan)
		protectedRoutes.PUT("/loans/:id", pipeline.UpdateLoan)
		protectedRoutes.DELETE("/loans/:id", pipeline.DeleteLoan)
		protectedRoutes.POST("/loans/:id/move", pipeline.MoveLoan)
		protectedRoutes.GET("/loans/:id/documents/progress", documents.Progress)
		protectedRoutes.GET("/opportunities", pipeline.ListOpportunities)
		protectedRoutes.POST("/opportunities", pipeline.CreateOpportunity)
		protectedRoutes.PUT("/opportunities/:id", pipeline.UpdateOpportunity)
		protectedRoutes.DELETE("/opportunities/:id", pipeline.DeleteOpportunity)
		protectedRoutes.POST("/opportunities/:id/move", pipeline.MoveOpportunity)

		// Document endpoints
		protectedRoutes.GET("/documents", documents.List)
		protectedRoutes.POST("/documents", documents.Upload)
		protectedRoutes.PATCH("/documents/:id/status", documents.UpdateStatus)
		protectedRoutes.DELETE("/documents/:id", documents.Delete)
		protectedRoutes.GET("/documents/:id/signed-url", documents.SignedURL)

		// Notes and todos
		protectedRoutes.GET("/notes", engagement.ListNotes)
		protectedRoutes.POST("/notes", engagement.CreateNote)
		protectedRoutes.PUT("/notes/:id", engagement.UpdateNote)
		protectedRoutes.DELETE("/notes/:id", engagement.DeleteNote)
		protectedRoutes.GET("/todos", engagement.ListTodos)
		protectedRoutes.POST("/todos", engagement.CreateTodo)
		protectedRoutes.PUT("/todos/:id", engagement.UpdateTodo)
		protectedRoutes.DELETE("/todos/:id", engagement.DeleteTodo)

		// AI advisor
		protectedRoutes.GET("/conversations", chatHandler.ListConversations)
		protectedRoutes.POST("/conversations", chatHandler.CreateConversation)
		protectedRoutes.GET("/conversations/:id/messages", chatHandler.ListMessages)
		protectedRoutes.POST("/conversations/:id/messages", chatHandler.SendMessage)

		// Activity feed and notifications
		protectedRoutes.GET("/activities", feed.ListActivities)
		protectedRoutes.GET("/notifications", feed.ListNotifications)
		protectedRoutes.POST("/notifications/:id/read", feed.MarkNotificationRead)
		protectedRoutes.POST("/notifications/read-all", feed.MarkAllNotificationsRead)

		// Realtime
		protectedRoutes.GET("/ws", ws.Serve)
	}

	return ginRouter
}
