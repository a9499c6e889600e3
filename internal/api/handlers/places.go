package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/places"
)

// PlacesHandler proxies address autocomplete so the Google API key never
// reaches the browser.
type PlacesHandler struct {
	client *places.Client
}

func NewPlacesHandler(client *places.Client) *PlacesHandler {
	return &PlacesHandler{client: client}
}

// Autocomplete godoc
// @Summary Address autocomplete
// @Description Proxies Google Places autocomplete using the stored API key.
// @Tags places
// @Produce json
// @Param input query string true "Partial address"
// @Param types query string false "Place type filter"
// @Success 200 {object} places.AutocompleteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /places/autocomplete [get]
func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'input' is required"})
		return
	}

	resp, err := h.client.Autocomplete(c.Request.Context(), input, c.Query("types"))
	if err != nil {
		if errors.Is(err, places.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Places integration is not enabled"})
			return
		}
		slog.Error("places autocomplete failed", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Upstream places request failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
