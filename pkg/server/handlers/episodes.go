package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/grafity"
	"github.com/soundprediction/grafity/pkg/server/dto"
)

// EpisodesHandler handles episode ingestion requests.
type EpisodesHandler struct {
	grafity grafity.Grafity
	logger  *slog.Logger
}

// NewEpisodesHandler creates a new episodes handler.
func NewEpisodesHandler(g grafity.Grafity, logger *slog.Logger) *EpisodesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EpisodesHandler{grafity: g, logger: logger}
}

// AddEpisodes handles POST /episodes. The body must be a JSON array of
// episode requests; each is processed independently and the response lists
// one outcome per episode in input order.
func (h *EpisodesHandler) AddEpisodes(c *gin.Context) {
	var batch dto.EpisodeBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrNotAnArray.Error()})
		return
	}
	if err := batch.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Info("ingesting episode batch", "count", len(batch))

	results := h.grafity.AddEpisodes(c.Request.Context(), batch.ToRequests())
	c.JSON(http.StatusOK, results)
}

// AddEpisode handles POST /episode, the single-episode path. Unlike the
// batch path it reports validation failures with a 400 status.
func (h *EpisodesHandler) AddEpisode(c *gin.Context) {
	var req dto.EpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result := h.grafity.AddEpisode(c.Request.Context(), req.ToRequest())
	if !result.Succeeded() {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Clear handles POST /clear. Wipes all graph data; there is no
// confirmation step.
func (h *EpisodesHandler) Clear(c *gin.Context) {
	if err := h.grafity.Clear(c.Request.Context()); err != nil {
		h.logger.Error("failed to clear graph", "error", err)
		c.JSON(http.StatusInternalServerError, dto.DetailResponse{Detail: "An error occurred while processing the request"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Graph cleared"})
}
