package handlers

import (
	"errors"
	"io"
	"net/http"

	"roastlog/internal/models"
	"roastlog/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImportSize bounds uploaded session files.
const maxImportSize = 4 << 20 // 4 MB

// @Summary      Export a session as JSON
// @Tags         export
// @Produce      json
// @Param        id  path   string  true  "Session id"
// @Success      200  {object}  models.RoastingSession
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/export/{id}/json [get]
func (h *Handler) exportJSON(c *gin.Context) {
	session, ok := h.loadSessionOr404(c)
	if !ok {
		return
	}
	payload, filename, err := h.services.Export.JSON(*session)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to export session", "export_json_failed", err, "id", session.ID)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// @Summary      Export a session's log table as CSV
// @Tags         export
// @Produce      text/csv
// @Param        id  path   string  true  "Session id"
// @Success      200  {string}  string  "CSV payload"
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/export/{id}/csv [get]
func (h *Handler) exportCSV(c *gin.Context) {
	session, ok := h.loadSessionOr404(c)
	if !ok {
		return
	}
	payload, filename, err := h.services.Export.CSV(*session)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to export session", "export_csv_failed", err, "id", session.ID)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// @Summary      Import a session file
// @Description  Accepts a JSON export, validates it has an id and a logs array, and stores it.
// @Tags         export
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, session"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/import [post]
func (h *Handler) importSession(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload: " + err.Error()})
		return
	}

	session, err := h.services.Export.Import(data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSessionFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed session file: " + err.Error()})
		return
	}

	// Imported records go straight into the store; live state is untouched.
	if err := h.services.History.Save(c.Request.Context(), session); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to store imported session", "import_store_failed", err, "id", session.ID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "session": session})
}

// loadSessionOr404 fetches the path-id session, writing the error response
// itself when the lookup fails or misses.
func (h *Handler) loadSessionOr404(c *gin.Context) (*models.RoastingSession, bool) {
	id := c.Param("id")
	session, err := h.services.History.Get(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "session_load_failed", err, "id", id)
		return nil, false
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
		return nil, false
	}
	return session, true
}
