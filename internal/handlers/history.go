package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const errLoadHistory = "failed to load history"

// @Summary      List sessions
// @Description  Newest first. With ?limit=N only the N most recent are returned.
// @Tags         history
// @Produce      json
// @Param        limit  query   int  false  "Max sessions to return"
// @Success      200    {object}  map[string]interface{}  "count, sessions"
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) listSessions(c *gin.Context) {
	ctx := c.Request.Context()

	if qs := c.Query("limit"); qs != "" {
		limit, err := strconv.Atoi(qs)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		sessions, err := h.services.History.Recent(ctx, limit)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_recent_failed", err, "limit", limit)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
		return
	}

	sessions, err := h.services.History.List(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
}

// @Summary      Get the most recent session
// @Tags         history
// @Produce      json
// @Success      200  {object}  models.RoastingSession
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/last [get]
func (h *Handler) getLastSession(c *gin.Context) {
	last, err := h.services.History.Last(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_last_failed", err)
		return
	}
	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, last)
}

// @Summary      Count today's sessions
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/today-count [get]
func (h *Handler) getTodayCount(c *gin.Context) {
	n, err := h.services.History.TodayCount(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_today_count_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary      Get a session by id
// @Tags         history
// @Produce      json
// @Param        id  path   string  true  "Session id"
// @Success      200  {object}  models.RoastingSession
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/session/{id} [get]
func (h *Handler) getSession(c *gin.Context) {
	id := c.Param("id")
	session, err := h.services.History.Get(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_get_failed", err, "id", id)
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, session)
}
