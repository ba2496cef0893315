package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusSignedOut = "signed_out"

	errSignOut     = "failed to sign out"
	errLoadSession = "failed to load session"
	errBadLimit    = "limit must be a positive integer"
)

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

// @Summary      Search current weather
// @Description  Resolves the city, fetches current conditions, moves the clock to the city's zone and counts the lookup for the signed-in account.
// @Tags         weather
// @Produce      json
// @Param        city  query     string  true  "city name"
// @Success      200   {object}  models.Report
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/weather [get]
func (h *Handler) searchWeather(c *gin.Context) {
	city := c.Query("city")
	report, err := h.services.Search(c.Request.Context(), city)
	if err != nil {
		h.respondError(c, "weather_search_failed", err, "city", city)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Most searched cities
// @Tags         stats
// @Produce      json
// @Param        limit  query     int  false  "number of cities (default 3)"
// @Success      200    {object}  map[string][]string
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/stats/top [get]
func (h *Handler) topCities(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadLimit})
			return
		}
		limit = v
	}

	cities, err := h.services.TopCities(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, "stats_top_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":   c.GetString(ctxUsername),
		"top_cities": cities,
	})
}

// @Summary      Current clock reading
// @Tags         clock
// @Produce      json
// @Success      200  {object}  models.ClockReading
// @Router       /api/v1/clock [get]
func (h *Handler) getClock(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Display())
}
