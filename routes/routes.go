package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/byggbroker/quote-api/handlers"
	"github.com/byggbroker/quote-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupUserRoutes sets up protected profile and 2FA routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupProjectRoutes sets up protected project and quote routes.
func SetupProjectRoutes(rg *gin.RouterGroup, db *sql.DB, storage handlers.QuoteStorage, events services.Broadcaster) {
	projectHandler := &handlers.ProjectHandler{DB: db}
	quoteHandler := &handlers.QuoteHandler{DB: db, Storage: storage, Events: events}

	rg.GET("/projects", projectHandler.GetProjects)
	rg.POST("/projects", projectHandler.CreateProject)
	rg.GET("/projects/:id", projectHandler.GetProject)
	rg.PUT("/projects/:id", projectHandler.UpdateProject)
	rg.DELETE("/projects/:id", projectHandler.DeleteProject)

	rg.GET("/projects/:id/quotes", quoteHandler.ListQuotes)
	rg.POST("/projects/:id/quotes", quoteHandler.UploadQuote)
	rg.GET("/quotes/:id/download", quoteHandler.DownloadQuote)
	rg.DELETE("/quotes/:id", quoteHandler.DeleteQuote)
}

// SetupAccessRequestRoutes sets up the quote access workflow routes.
func SetupAccessRequestRoutes(rg *gin.RouterGroup, access handlers.AccessWorkflow) {
	accessHandler := handlers.NewAccessRequestHandler(access)

	rg.POST("/quote-access/request", accessHandler.RequestAccess)
	rg.POST("/quote-access/grant", accessHandler.GrantAccess)
}

// SetupAdminRoutes sets up the registered-email registry routes.
func SetupAdminRoutes(rg *gin.RouterGroup, db *sql.DB) {
	adminHandler := &handlers.AdminHandler{DB: db}

	rg.POST("/admin/registered-emails", adminHandler.RegisterEmail)
	rg.GET("/admin/registered-emails", adminHandler.GetRegisteredEmails)
}
