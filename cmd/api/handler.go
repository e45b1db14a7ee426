package api

import (
	"github.com/gin-gonic/gin"

	authUsecase "github.com/Chitresh-code/doc-sign/internal/auth/usecase"
	docUsecase "github.com/Chitresh-code/doc-sign/internal/document/usecase"
	sigUsecase "github.com/Chitresh-code/doc-sign/internal/signature/usecase"
	sumUsecase "github.com/Chitresh-code/doc-sign/internal/summary/usecase"
)

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	documentUsecase  docUsecase.DocumentUsecase
	signatureUsecase sigUsecase.SignatureUsecase
	summaryUsecase   sumUsecase.SummaryUsecase
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	documentUc docUsecase.DocumentUsecase,
	signatureUc sigUsecase.SignatureUsecase,
	summaryUc sumUsecase.SummaryUsecase,
) *Handler {
	return &Handler{
		authUsecase:      authUc,
		documentUsecase:  documentUc,
		signatureUsecase: signatureUc,
		summaryUsecase:   summaryUc,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.documentUsecase, h.signatureUsecase, h.summaryUsecase)

	return r.Run(addr)
}
