package api

import (
	"net/http"

	authDelivery "inboxtriage-backend/internal/auth/delivery"
	authUsecase "inboxtriage-backend/internal/auth/usecase"
	emailDelivery "inboxtriage-backend/internal/email/delivery"
	emailUsecase "inboxtriage-backend/internal/email/usecase"
	"inboxtriage-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, emailUc emailUsecase.EmailUsecase, cfg *config.Config) {
	authHandler := authDelivery.NewAuthHandler(authUc, cfg.FrontendURL)
	emailHandler := emailDelivery.NewEmailHandler(emailUc)

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/google/login", authHandler.Login)
			auth.GET("/google/callback", authHandler.Callback)
		}

		// Email routes
		emails := api.Group("/emails")
		{
			emails.GET("", emailHandler.ListStored)
			emails.GET("/summary", emailHandler.Summary)
			emails.GET("/recent", emailHandler.Recent)
			emails.GET("/classify", emailHandler.Classify)
			emails.POST("/reprocess", emailHandler.Reprocess)
		}

		// Derived meeting notes
		api.GET("/notes", emailHandler.ListNotes)
	}
}
