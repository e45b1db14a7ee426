package delivery

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/Chitresh-code/doc-sign/internal/auth/delivery"
	"github.com/Chitresh-code/doc-sign/internal/signature/usecase"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

type SignatureHandler struct {
	signatureUsecase usecase.SignatureUsecase
}

func NewSignatureHandler(signatureUsecase usecase.SignatureUsecase) *SignatureHandler {
	return &SignatureHandler{signatureUsecase: signatureUsecase}
}

func (h *SignatureHandler) Sign(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	if _, err := h.signatureUsecase.Sign(c.Request.Context(), user, documentID); err != nil {
		log.Printf("[Signature] Sign %s failed: %v", documentID, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Document signed successfully."})
}

func (h *SignatureHandler) ServeSignedPDF(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	pdf, err := h.signatureUsecase.OpenSignedPDF(user, documentID)
	if err != nil {
		log.Printf("[Signature] Serve signed PDF %s failed: %v", documentID, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	defer pdf.Close()

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, pdf); err != nil {
		log.Printf("[Signature] Streaming signed PDF %s failed: %v", documentID, err)
	}
}

func (h *SignatureHandler) Status(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	status, err := h.signatureUsecase.Status(user, documentID)
	if err != nil {
		log.Printf("[Signature] Status %s failed: %v", documentID, err)
		httpStatus, msg := apperr.MapToHTTP(err)
		c.JSON(httpStatus, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, status)
}
