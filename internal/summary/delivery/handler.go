package delivery

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/Chitresh-code/doc-sign/internal/auth/delivery"
	"github.com/Chitresh-code/doc-sign/internal/summary/usecase"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

type SummaryHandler struct {
	summaryUsecase usecase.SummaryUsecase
}

func NewSummaryHandler(summaryUsecase usecase.SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{summaryUsecase: summaryUsecase}
}

func (h *SummaryHandler) Generate(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	summary, err := h.summaryUsecase.Summarize(c.Request.Context(), user, documentID)
	if err != nil {
		var sumErr *apperr.SummarizationError
		if errors.As(err, &sumErr) {
			// Raw model output is logged for diagnostics, never returned.
			log.Printf("[Summary] AI returned non-JSON for %s: %q", documentID, sumErr.Raw)
		} else {
			log.Printf("[Summary] Generate %s failed: %v", documentID, err)
		}
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *SummaryHandler) View(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	documentID := c.Param("id")

	view, err := h.summaryUsecase.GetSummary(user, documentID)
	if err != nil {
		log.Printf("[Summary] View %s failed: %v", documentID, err)
		status, msg := apperr.MapToHTTP(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, view)
}
