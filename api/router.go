package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mzhirov/flightbook/internal/service/booking"
	"github.com/mzhirov/flightbook/internal/service/flights"
	"github.com/mzhirov/flightbook/internal/service/inventory"
	"github.com/mzhirov/flightbook/internal/service/users"
	"go.uber.org/zap"
)

// NewRouter assembles the HTTP surface. Read routes are public; booking and
// inventory mutations sit behind the session middleware, with the admin
// role enforced inside the inventory service.
func NewRouter(
	log *zap.Logger,
	userSvc users.UserUseCase,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	inventorySvc inventory.InventoryUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	authn := Authenticate(userSvc)

	NewAuthHandler(userSvc).Register(router.Group("/auth"))

	airports := router.Group("/airports")
	securedAirports := router.Group("/airports", authn)
	NewAirportHandler(inventorySvc).Register(airports, securedAirports)

	flightsGroup := router.Group("/flights")
	securedFlights := router.Group("/flights", authn)
	NewFlightHandler(flightSvc, inventorySvc).Register(flightsGroup, securedFlights)

	bookings := router.Group("/bookings", authn)
	NewBookingHandler(bookingSvc).Register(bookings)

	return router
}
