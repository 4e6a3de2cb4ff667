package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"washride/internal/modules/driver"
	"washride/internal/types"
)

type registerDriverRequest struct {
	UserID types.ID    `json:"user_id"`
	Name   string      `json:"name" binding:"required"`
	Phone  string      `json:"phone"`
	Home   types.Point `json:"home"`
}

func (s *Server) handleRegisterDriver(c *gin.Context) {
	var req registerDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	d := &driver.Driver{
		ID:        types.ID(uuid.NewString()),
		UserID:    req.UserID,
		Name:      req.Name,
		Phone:     req.Phone,
		Home:      req.Home,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.drivers.Register(c.Request.Context(), d); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (s *Server) handleListDrivers(c *gin.Context) {
	list, err := s.drivers.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": list})
}

func (s *Server) handleGetDriver(c *gin.Context) {
	d, err := s.drivers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type boolFlagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func (s *Server) handleApproveDriver(c *gin.Context) {
	var req boolFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.drivers.SetApproved(c.Request.Context(), types.ID(c.Param("id")), *req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": *req.Value})
}

func (s *Server) handleDriverAvailability(c *gin.Context) {
	var req boolFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.drivers.SetAvailability(c.Request.Context(), types.ID(c.Param("id")), *req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": *req.Value})
}

// handleAvailableDrivers lists the assignable pool: approved, marked
// available, and not currently on a booking.
func (s *Server) handleAvailableDrivers(c *gin.Context) {
	pool, err := s.drivers.ApprovedAndAvailable(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": pool})
}

func (s *Server) handleDriverActiveBooking(c *gin.Context) {
	b, err := s.bookings.ActiveForDriver(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleDriverPosition(c *gin.Context) {
	pt, err := s.location.Position(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pt)
}

func (s *Server) handleDriverTrack(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	trail, err := s.location.History(c.Request.Context(), types.ID(c.Param("id")), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": trail})
}

type positionUpdateRequest struct {
	Point types.Point `json:"point" binding:"required"`
}

// handleUpdatePosition is the ingest path for driver apps reporting
// real GPS fixes; the simulator feeds the same sink internally.
func (s *Server) handleUpdatePosition(c *gin.Context) {
	var req positionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.location.Update(c.Request.Context(), types.ID(c.Param("id")), req.Point); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleNearbyDrivers(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "lat and lng query parameters are required"})
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius_km", "5"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ids, err := s.location.Nearby(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radius, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver_ids": ids})
}
