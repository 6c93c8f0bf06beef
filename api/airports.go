package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/service/inventory"
)

type AirportHandler struct {
	service inventory.InventoryUseCase
}

func NewAirportHandler(service inventory.InventoryUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

// Register mounts the read route on the public group and the mutations on
// the authenticated group; the service enforces the admin role.
func (h *AirportHandler) Register(public, secured *gin.RouterGroup) {
	public.GET("/", h.list)
	secured.POST("/", h.create)
	secured.DELETE("/:id", h.delete)
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (h *AirportHandler) create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	var req inventory.CreateAirportInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airport, err := h.service.CreateAirport(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airport)
}

func (h *AirportHandler) delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.DeleteAirport(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
