package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary      Fetch current weather
// @Description  Returns a snapshot for the given coordinates. A failed fetch leaves the session without a snapshot; it is never fatal.
// @Tags         weather
// @Produce      json
// @Param        lat  query   number  true  "Latitude"
// @Param        lon  query   number  true  "Longitude"
// @Success      200  {object}  models.WeatherSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/weather [get]
func (h *Handler) getWeather(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon query params are required"})
		return
	}

	snap, err := h.services.Weather.Fetch(c.Request.Context(), lat, lon)
	if err != nil {
		if h.log != nil {
			h.log.Warnw("weather_fetch_failed", "provider", h.services.Weather.Name(), "err", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "weather fetch failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
