package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/service/flights"
	"github.com/mzhirov/flightbook/internal/service/inventory"
)

type FlightHandler struct {
	flights   flights.FlightUseCase
	inventory inventory.InventoryUseCase
}

func NewFlightHandler(flightSvc flights.FlightUseCase, inventorySvc inventory.InventoryUseCase) *FlightHandler {
	return &FlightHandler{flights: flightSvc, inventory: inventorySvc}
}

func (h *FlightHandler) Register(public, secured *gin.RouterGroup) {
	public.GET("/", h.list)
	public.GET("/:id", h.get)
	secured.POST("/", h.create)
	secured.DELETE("/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := flights.Filter{Date: c.Query("date")}

	if raw := c.Query("departure_airport_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departure_airport_id"})
			return
		}
		filter.DepartureAirportID = id
	}
	if raw := c.Query("arrival_airport_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid arrival_airport_id"})
			return
		}
		filter.ArrivalAirportID = id
	}

	list, err := h.flights.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.flights.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	var req inventory.CreateFlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.inventory.CreateFlight(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
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

	if err := h.inventory.DeleteFlight(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
