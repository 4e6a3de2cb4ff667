package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/internal/modules/booking"
	"washride/internal/modules/payment"
	"washride/internal/types"
)

type createBookingRequest struct {
	ClientID      types.ID        `json:"client_id" binding:"required"`
	ProviderID    types.ID        `json:"provider_id" binding:"required"`
	ServiceID     types.ID        `json:"service_id" binding:"required"`
	Vehicle       booking.Vehicle `json:"vehicle" binding:"required"`
	PickupAddress string          `json:"pickup_address"`
	Pickup        types.Point     `json:"pickup" binding:"required"`
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// Only approved providers take bookings.
	if _, err := s.providers.Approved(c.Request.Context(), req.ProviderID); err != nil {
		writeError(c, err)
		return
	}

	// The booking is priced from the provider's catalog, never from the
	// request body.
	entry, err := s.providers.GetService(c.Request.Context(), req.ProviderID, req.ServiceID)
	if err != nil {
		writeError(c, err)
		return
	}

	id, err := s.bookings.Create(c.Request.Context(), booking.CreateCommand{
		ClientID:      req.ClientID,
		ProviderID:    req.ProviderID,
		Vehicle:       req.Vehicle,
		PickupAddress: req.PickupAddress,
		Pickup:        req.Pickup,
		Cost:          entry.Price,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking_id": id})
}

func (s *Server) handleGetBooking(c *gin.Context) {
	b, err := s.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type advanceRequest struct {
	ActorType string `json:"actor_type"`
	// ExpectedStatus anchors the advance to the status the caller last
	// saw; the request conflicts if the booking has moved on.
	ExpectedStatus booking.Status `json:"expected_status"`
}

func (s *Server) handleAdvanceBooking(c *gin.Context) {
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	status, err := s.bookings.Advance(c.Request.Context(), booking.AdvanceCommand{
		BookingID: types.ID(c.Param("id")),
		ActorType: req.ActorType,
		Expected:  req.ExpectedStatus,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type cancelRequest struct {
	ActorType string `json:"actor_type"`
	Reason    string `json:"reason"`
}

func (s *Server) handleCancelBooking(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := s.bookings.Cancel(c.Request.Context(), booking.CancelCommand{
		BookingID: types.ID(c.Param("id")),
		ActorType: req.ActorType,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": booking.StatusCancelled})
}

type assignRequest struct {
	// DriverID pins a specific driver; empty lets the selector pick the
	// nearest from the assignable pool.
	DriverID types.ID `json:"driver_id"`
}

func (s *Server) handleAssignDriver(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := s.bookings.Get(ctx, types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	driverID := req.DriverID
	if driverID == "" {
		d, err := s.drivers.SelectForBooking(ctx, b)
		if err != nil {
			writeError(c, err)
			return
		}
		driverID = d.ID
	} else if _, err := s.drivers.Get(ctx, driverID); err != nil {
		writeError(c, err)
		return
	}

	if err := s.bookings.AssignDriver(ctx, b.ID, driverID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": b.ID, "driver_id": driverID})
}

type payRequest struct {
	Details payment.Details `json:"details" binding:"required"`
}

func (s *Server) handlePayBooking(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := s.payments.Process(c.Request.Context(), payment.ProcessCommand{
		BookingID: types.ID(c.Param("id")),
		Details:   req.Details,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_status": booking.PaymentPaid})
}

type paymentStatusRequest struct {
	Status booking.PaymentStatus `json:"status" binding:"required"`
}

// handlePaymentStatus is the administrative override for payment
// bookkeeping; normal settlement goes through /pay.
func (s *Server) handlePaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.bookings.UpdatePaymentStatus(c.Request.Context(), types.ID(c.Param("id")), req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_status": req.Status})
}

func (s *Server) handleListActiveBookings(c *gin.Context) {
	list, err := s.bookings.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (s *Server) handleClientBookings(c *gin.Context) {
	list, err := s.bookings.ListByClient(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (s *Server) handleClientActiveBooking(c *gin.Context) {
	b, err := s.bookings.ActiveForClient(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
