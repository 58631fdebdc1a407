package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mfdez/tubeqa/internal/api/middleware"
	"github.com/mfdez/tubeqa/internal/domain"
	"github.com/mfdez/tubeqa/internal/service"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	VideoID string `json:"video_id" binding:"required"`
	Query   string `json:"query" binding:"required"`
}

// AskResponse is the success body of POST /ask.
type AskResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// AskHandler handles transcript question answering.
type AskHandler struct {
	answers *service.AnswerService
}

// NewAskHandler creates a new ask handler.
// Parameters:
//   - answers: answer service instance.
// Returns:
//   - *AskHandler: initialized handler.
func NewAskHandler(answers *service.AnswerService) *AskHandler {
	return &AskHandler{
		answers: answers,
	}
}

// Ask handles POST /ask: answers a question about one video's transcript.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Detail: "Invalid request: " + err.Error(),
		})
		return
	}

	req.VideoID = strings.TrimSpace(req.VideoID)
	req.Query = strings.TrimSpace(req.Query)
	if req.VideoID == "" || req.Query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Detail: "video_id and query must be non-empty",
		})
		return
	}

	answer, err := h.answers.Answer(c.Request.Context(), req.VideoID, req.Query)
	if err != nil {
		status, detail := pipelineStatus(err)
		middleware.GetLogger(c).WithError(err).Errorf("ask failed: video_id=%s, status=%d", req.VideoID, status)
		c.JSON(status, ErrorResponse{Detail: detail})
		return
	}

	c.JSON(http.StatusOK, AskResponse{Response: answer})
}

// pipelineStatus maps a pipeline error to its HTTP status and detail body.
// Client-fault kinds get fixed messages; provider faults carry the cause.
func pipelineStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTranscriptsDisabled):
		return http.StatusBadRequest, "Transcripts are disabled for this video."
	case errors.Is(err, domain.ErrEmptyTranscript):
		return http.StatusNotFound, "No transcript is available for this video."
	case errors.Is(err, domain.ErrFetch):
		return http.StatusInternalServerError, "Error fetching transcript: " + err.Error()
	case errors.Is(err, domain.ErrEmbedding):
		return http.StatusInternalServerError, "Error building index: " + err.Error()
	default:
		return http.StatusInternalServerError, "Error generating response: " + err.Error()
	}
}
