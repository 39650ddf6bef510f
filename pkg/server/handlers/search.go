package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/grafity"
	"github.com/soundprediction/grafity/pkg/server/dto"
)

// SearchHandler handles search requests.
type SearchHandler struct {
	grafity grafity.Grafity
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(g grafity.Grafity, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{grafity: g, logger: logger}
}

// Search handles POST /search. Store-side failures map to a generic 500
// payload; no result details or internals leak to the caller.
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	results, err := h.grafity.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.logger.Error("search failed", "query", req.Query, "error", err)
		c.JSON(http.StatusInternalServerError, dto.DetailResponse{Detail: "An error occurred while processing the request"})
		return
	}

	c.JSON(http.StatusOK, results)
}
