package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/internal/ai"
)

type optimizeRouteRequest struct {
	CurrentLocation   string   `json:"current_location" binding:"required"`
	Destinations      []string `json:"destinations" binding:"required,min=1"`
	TrafficConditions string   `json:"traffic_conditions"`
	RoadClosures      []string `json:"road_closures"`
}

// handleOptimizeRoute runs the dispatcher's multi-stop run through the
// LLM and returns the suggested stop order. The result is advisory; it
// never feeds the simulator or booking state.
func (s *Server) handleOptimizeRoute(c *gin.Context) {
	var req optimizeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	suggestion, err := s.optimizer.OptimizeRoute(c.Request.Context(), ai.OptimizeRequest{
		CurrentLocation:   req.CurrentLocation,
		Destinations:      req.Destinations,
		TrafficConditions: req.TrafficConditions,
		RoadClosures:      req.RoadClosures,
	})
	if err != nil {
		s.log.Error("route optimization failed", "err", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: "route optimizer unavailable"})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
