package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/internal/modules/provider"
	"washride/internal/types"
)

type registerProviderRequest struct {
	Name     string      `json:"name" binding:"required"`
	Address  string      `json:"address"`
	Location types.Point `json:"location" binding:"required"`
	Bays     int         `json:"bays"`
}

func (s *Server) handleRegisterProvider(c *gin.Context) {
	var req registerProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	p, err := s.providers.Register(c.Request.Context(), provider.RegisterCommand{
		Name:     req.Name,
		Address:  req.Address,
		Location: req.Location,
		Bays:     req.Bays,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleListProviders(c *gin.Context) {
	var (
		list []*provider.Provider
		err  error
	)
	if c.Query("approved") == "true" {
		list, err = s.providers.ListApproved(c.Request.Context())
	} else {
		list, err = s.providers.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": list})
}

func (s *Server) handleGetProvider(c *gin.Context) {
	p, err := s.providers.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleApproveProvider(c *gin.Context) {
	var req boolFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.providers.SetApproved(c.Request.Context(), types.ID(c.Param("id")), *req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": *req.Value})
}

type addServiceRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Price       types.Money `json:"price" binding:"required"`
	DurationMin int         `json:"duration_min"`
}

func (s *Server) handleAddProviderService(c *gin.Context) {
	var req addServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	svc, err := s.providers.AddService(c.Request.Context(), provider.AddServiceCommand{
		ProviderID:  types.ID(c.Param("id")),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (s *Server) handleListProviderServices(c *gin.Context) {
	list, err := s.providers.ListServices(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list})
}

func (s *Server) handleRemoveProviderService(c *gin.Context) {
	err := s.providers.RemoveService(c.Request.Context(), types.ID(c.Param("id")), types.ID(c.Param("serviceID")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
