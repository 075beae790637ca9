package handlers

import (
	"net/http"

	"roastlog/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Compare two sessions
// @Description  Aligns minutes 0-17 of sessions a and b; diffs are b minus a. Either side may be omitted.
// @Tags         analysis
// @Produce      json
// @Param        a  query   string  false  "Session id (side A)"
// @Param        b  query   string  false  "Session id (side B)"
// @Success      200  {object}  service.Comparison
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/analysis/compare [get]
func (h *Handler) compareSessions(c *gin.Context) {
	ctx := c.Request.Context()

	var sideA, sideB *models.RoastingSession
	if id := c.Query("a"); id != "" {
		s, err := h.services.History.Get(ctx, id)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "compare_load_failed", err, "id", id)
			return
		}
		if s == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
			return
		}
		sideA = s
	}
	if id := c.Query("b"); id != "" {
		s, err := h.services.History.Get(ctx, id)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "compare_load_failed", err, "id", id)
			return
		}
		if s == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
			return
		}
		sideB = s
	}

	c.JSON(http.StatusOK, h.services.Analysis.Compare(sideA, sideB))
}
