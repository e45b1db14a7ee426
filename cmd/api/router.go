package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/Chitresh-code/doc-sign/internal/auth/delivery"
	authUsecase "github.com/Chitresh-code/doc-sign/internal/auth/usecase"
	docdelivery "github.com/Chitresh-code/doc-sign/internal/document/delivery"
	docUsecase "github.com/Chitresh-code/doc-sign/internal/document/usecase"
	sigdelivery "github.com/Chitresh-code/doc-sign/internal/signature/delivery"
	sigUsecase "github.com/Chitresh-code/doc-sign/internal/signature/usecase"
	sumdelivery "github.com/Chitresh-code/doc-sign/internal/summary/delivery"
	sumUsecase "github.com/Chitresh-code/doc-sign/internal/summary/usecase"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	documentUc docUsecase.DocumentUsecase,
	signatureUc sigUsecase.SignatureUsecase,
	summaryUc sumUsecase.SummaryUsecase,
) {
	authHandler := authdelivery.NewAuthHandler(authUc)
	documentHandler := docdelivery.NewDocumentHandler(documentUc)
	signatureHandler := sigdelivery.NewSignatureHandler(signatureUc)
	summaryHandler := sumdelivery.NewSummaryHandler(summaryUc)

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// User routes
	users := r.Group("/users/v1")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.GET("/profile", authdelivery.AuthMiddleware(authUc), authHandler.Profile)
	}

	// Document routes (protected)
	documents := r.Group("/documents/v1")
	documents.Use(authdelivery.AuthMiddleware(authUc))
	{
		documents.POST("/generate", documentHandler.Generate)
		documents.GET("/list", documentHandler.List)
		documents.GET("/view/:id", documentHandler.ServePDF)
		documents.POST("/send/:id", documentHandler.SendToSigner)
	}

	// Signature routes (protected)
	signature := r.Group("/signature/v1")
	signature.Use(authdelivery.AuthMiddleware(authUc))
	{
		signature.POST("/sign/:id", signatureHandler.Sign)
		signature.GET("/view/:id", signatureHandler.ServeSignedPDF)
		signature.GET("/status/:id", signatureHandler.Status)
	}

	// Summary routes (protected)
	summary := r.Group("/summary/v1")
	summary.Use(authdelivery.AuthMiddleware(authUc))
	{
		summary.POST("/generate/:id", summaryHandler.Generate)
		summary.GET("/view/:id", summaryHandler.View)
	}
}
