package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"roastlog/internal/models"
	"roastlog/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusStarted  = "started"
	statusStopped  = "stopped"
	statusRestored = "restored"
	statusReset    = "reset"

	errSessionNotFound = "session not found"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// isValidationErr separates caller mistakes (400) from internal failures.
func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrNotRoasting) ||
		errors.Is(err, service.ErrMinuteOutOfRange) ||
		errors.Is(err, service.ErrInvalidEventType) ||
		errors.Is(err, service.ErrInvalidMachine)
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a
// 400 JSON on failure. Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// StartRequest is the payload for starting a roast.
type StartRequest struct {
	// Charge temperature in °F
	StartTemperature *float64 `json:"start_temperature" binding:"required" example:"400"`
	// Charge heat level in percent
	StartHeatLevel *float64 `json:"start_heat_level" binding:"required" example:"80"`
}

// StopRequest is the payload for finishing a roast.
type StopRequest struct {
	// Final bean temperature in °F
	EndTemperature *float64 `json:"end_temperature" binding:"required" example:"410"`
	Notes          string   `json:"notes,omitempty"`
}

// UpdateLogRequest replaces one per-minute log entry.
type UpdateLogRequest struct {
	// Temperature in °F; null clears the reading
	Temperature *float64 `json:"temperature"`
	// Heat level in percent
	HeatLevel float64 `json:"heat_level"`
}

// AddEventRequest records a roast milestone at the current clock.
type AddEventRequest struct {
	// Allowed: TP, HEAT_CHANGE, FIRST_CRACK, SECOND_CRACK
	Type        string  `json:"type" binding:"required" example:"FIRST_CRACK"`
	Temperature float64 `json:"temperature" example:"385"`
	HeatLevel   float64 `json:"heat_level" example:"60"`
	Notes       string  `json:"notes,omitempty"`
}

// MetadataRequest is a partial metadata update; absent fields are untouched.
type MetadataRequest struct {
	Machine     *string                 `json:"machine,omitempty" example:"G60"`
	RoasterName *string                 `json:"roaster_name,omitempty"`
	ProductName *string                 `json:"product_name,omitempty"`
	BeanWeight  *float64                `json:"bean_weight,omitempty"`
	BBP         *string                 `json:"bbp,omitempty"`
	Weather     *models.WeatherSnapshot `json:"weather,omitempty"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Start a roast
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body   StartRequest  true  "Charge readings"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/session/start [post]
func (h *Handler) startRoasting(c *gin.Context) {
	var req StartRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()
	state, err := h.services.Roasting.Start(ctx, *req.StartTemperature, *req.StartHeatLevel)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to start roast", "roast_start_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStarted, "state": state})
}

// @Summary      Stop the roast
// @Description  Finalizes the session record and queues the durable write and backup
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body   StopRequest  true  "Final readings"
// @Success      200   {object}  map[string]interface{}  "status, session"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/session/stop [post]
func (h *Handler) stopRoasting(c *gin.Context) {
	var req StopRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()
	record, err := h.services.Roasting.Stop(ctx, *req.EndTemperature, req.Notes)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to stop roast", "roast_stop_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStopped, "session": record})
}

// @Summary      Get live session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  service.Snapshot
// @Router       /api/v1/session/state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Roasting.State(c.Request.Context()))
}

// @Summary      Update session metadata
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body   MetadataRequest  true  "Partial metadata"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/session/metadata [put]
func (h *Handler) setMetadata(c *gin.Context) {
	var req MetadataRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	params := service.MetadataParams{
		RoasterName: req.RoasterName,
		ProductName: req.ProductName,
		BeanWeight:  req.BeanWeight,
		BBP:         req.BBP,
		Weather:     req.Weather,
	}
	if req.Machine != nil {
		m := models.MachineType(*req.Machine)
		params.Machine = &m
	}
	ctx := c.Request.Context()
	if err := h.services.Roasting.SetMetadata(ctx, params); err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to update metadata", "metadata_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "state": h.services.Roasting.State(ctx)})
}

// @Summary      Update a log entry
// @Description  Replaces the per-minute entry and recomputes rate-of-rise for it and the next minute
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        minute  path   int               true  "Minute 0-17"
// @Param        body    body   UpdateLogRequest  true  "Readings"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/session/logs/{minute} [put]
func (h *Handler) updateLog(c *gin.Context) {
	minute, err := strconv.Atoi(c.Param("minute"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minute must be an integer"})
		return
	}
	var req UpdateLogRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.services.Roasting.UpdateLog(ctx, minute, req.Temperature, req.HeatLevel); err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to update log", "log_update_failed", err, "minute", minute)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "state": h.services.Roasting.State(ctx)})
}

// @Summary      Record a roast event
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body   AddEventRequest  true  "Milestone"
// @Success      200   {object}  map[string]interface{}  "status, event"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/session/events [post]
func (h *Handler) addEvent(c *gin.Context) {
	var req AddEventRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()
	ev, err := h.services.Roasting.AddEvent(ctx, req.Type, req.Temperature, req.HeatLevel, req.Notes)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to add event", "event_add_failed", err, "type", req.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "event": ev})
}

// restoreRequest loads a stored session back into live state. Either a full
// session payload or just an id of a persisted record.
type restoreRequest struct {
	ID      string                  `json:"id,omitempty"`
	Session *models.RoastingSession `json:"session,omitempty"`
}

// @Summary      Restore a session into live state
// @Description  Overwrites the current live session with a stored record
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body   restoreRequest  true  "Record id or full session"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/session/restore [post]
func (h *Handler) restoreSession(c *gin.Context) {
	var req restoreRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()

	session := req.Session
	if session == nil {
		if req.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "either id or session is required"})
			return
		}
		stored, err := h.services.History.Get(ctx, req.ID)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to load session", "restore_load_failed", err, "id", req.ID)
			return
		}
		if stored == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": errSessionNotFound})
			return
		}
		session = stored
	}

	if err := h.services.Roasting.Restore(ctx, *session); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to restore session", "restore_failed", err, "id", session.ID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRestored, "state": h.services.Roasting.State(ctx)})
}

// @Summary      Reset to idle
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/session/reset [post]
func (h *Handler) resetSession(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Roasting.Reset(ctx); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to reset session", "reset_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusReset, "state": h.services.Roasting.State(ctx)})
}

// @Summary      List machines and products
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/machines [get]
func (h *Handler) getMachines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"machines": models.ProductsByMachine})
}
