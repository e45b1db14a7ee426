package delivery

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/Chitresh-code/doc-sign/internal/auth/delivery"
	docdto "github.com/Chitresh-code/doc-sign/internal/document/dto"
	"github.com/Chitresh-code/doc-sign/internal/document/usecase"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

type DocumentHandler struct {
	documentUsecase usecase.DocumentUsecase
}

func NewDocumentHandler(documentUsecase usecase.DocumentUsecase) *DocumentHandler {
	return &DocumentHandler{documentUsecase: documentUsecase}
}

func (h *DocumentHandler) Generate(c *gin.Context) {
	user := authdelivery.CurrentUser(c)

	var req docdto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.documentUsecase.Generate(c.Request.Context(), user, &req)
	if err != nil {
		log.Printf("[Document] Generate failed for %s: %v", user.Username, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, docdto.NewDocumentResponse(doc))
}

func (h *DocumentHandler) List(c *gin.Context) {
	user := authdelivery.CurrentUser(c)

	docs, err := h.documentUsecase.ListByOwner(user)
	if err != nil {
		log.Printf("[Document] List failed for %s: %v", user.Username, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, docdto.NewDocumentListResponse(docs))
}

func (h *DocumentHandler) ServePDF(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	pdf, err := h.documentUsecase.OpenPlainPDF(user, documentID)
	if err != nil {
		log.Printf("[Document] Serve PDF %s failed: %v", documentID, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	defer pdf.Close()

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, pdf); err != nil {
		log.Printf("[Document] Streaming PDF %s failed: %v", documentID, err)
	}
}

func (h *DocumentHandler) SendToSigner(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	if err := h.documentUsecase.SendToSigner(user, documentID); err != nil {
		log.Printf("[Document] Send %s to signer failed: %v", documentID, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document sent to signer successfully."})
}
