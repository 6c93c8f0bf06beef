package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID      int64  `json:"flight_id"`
	PassengerName string `json:"passenger_name"`
	Seats         int    `json:"seats"`
}

type bookingResponse struct {
	ID            int64  `json:"id"`
	Reference     string `json:"reference"`
	FlightID      int64  `json:"flight_id"`
	PassengerName string `json:"passenger_name"`
	Seats         int    `json:"seats"`
	CreatedAt     string `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(secured *gin.RouterGroup) {
	secured.POST("/", h.create)
	secured.GET("/", h.list)
}

func (h *BookingHandler) create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committed, err := h.service.Reserve(c.Request.Context(), booking.ReserveInput{
		FlightID:      req.FlightID,
		UserID:        actor.ID,
		PassengerName: req.PassengerName,
		Seats:         req.Seats,
		Email:         actor.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(committed))
}

func (h *BookingHandler) list(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	bookings, err := h.service.ListForUser(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		Reference:     b.Reference,
		FlightID:      b.FlightID,
		PassengerName: b.PassengerName,
		Seats:         b.Seats,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
