// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"washride/internal/ai"
	"washride/internal/modules/booking"
	"washride/internal/modules/driver"
	"washride/internal/modules/location"
	"washride/internal/modules/payment"
	"washride/internal/modules/provider"
	"washride/internal/ws"
)

type ServerDeps struct {
	Bookings  *booking.Service
	Drivers   *driver.Service
	Providers *provider.Svc
	Payments  *payment.Service
	Location  *location.Service
	Optimizer ai.LLMProvider // optional; nil disables /api/route-optimizer
	Hub       *ws.Hub
	Log       *slog.Logger
}

type Server struct {
	bookings  *booking.Service
	drivers   *driver.Service
	providers *provider.Svc
	payments  *payment.Service
	location  *location.Service
	optimizer ai.LLMProvider
	hub       *ws.Hub
	log       *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		bookings:  deps.Bookings,
		drivers:   deps.Drivers,
		providers: deps.Providers,
		payments:  deps.Payments,
		location:  deps.Location,
		optimizer: deps.Optimizer,
		hub:       deps.Hub,
		log:       log,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if s.hub != nil {
		r.GET("/ws/track", ws.Handler(s.hub))
	}

	api := r.Group("/api")

	b := api.Group("/bookings")
	b.POST("", s.handleCreateBooking)
	b.GET("/active", s.handleListActiveBookings)
	b.GET("/:id", s.handleGetBooking)
	b.POST("/:id/advance", s.handleAdvanceBooking)
	b.POST("/:id/cancel", s.handleCancelBooking)
	b.POST("/:id/assign", s.handleAssignDriver)
	b.POST("/:id/pay", s.handlePayBooking)
	b.PUT("/:id/payment-status", s.handlePaymentStatus)

	api.GET("/clients/:id/bookings", s.handleClientBookings)
	api.GET("/clients/:id/active-booking", s.handleClientActiveBooking)

	d := api.Group("/drivers")
	d.POST("", s.handleRegisterDriver)
	d.GET("", s.handleListDrivers)
	d.GET("/available", s.handleAvailableDrivers)
	d.GET("/:id", s.handleGetDriver)
	d.POST("/:id/approve", s.handleApproveDriver)
	d.POST("/:id/availability", s.handleDriverAvailability)
	d.GET("/:id/active-booking", s.handleDriverActiveBooking)
	d.GET("/:id/position", s.handleDriverPosition)
	d.GET("/:id/track", s.handleDriverTrack)
	d.POST("/:id/position", s.handleUpdatePosition)

	p := api.Group("/providers")
	p.POST("", s.handleRegisterProvider)
	p.GET("", s.handleListProviders)
	p.GET("/:id", s.handleGetProvider)
	p.POST("/:id/approve", s.handleApproveProvider)
	p.POST("/:id/services", s.handleAddProviderService)
	p.GET("/:id/services", s.handleListProviderServices)
	p.DELETE("/:id/services/:serviceID", s.handleRemoveProviderService)

	api.GET("/drivers/nearby", s.handleNearbyDrivers)

	if s.optimizer != nil {
		api.POST("/route-optimizer", s.handleOptimizeRoute)
	}

	return r
}
