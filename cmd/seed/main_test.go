package main

import (
	"testing"

	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFlights(t *testing.T) {
	seeds := []domain.Flight{
		{FlightNumber: "AI101"},
		{FlightNumber: "AI202"},
	}

	t.Run("empty store seeds everything", func(t *testing.T) {
		missing := missingFlights(nil, seeds)
		assert.Len(t, missing, 2)
	})

	t.Run("partial earlier run is topped up", func(t *testing.T) {
		existing := []domain.Flight{{ID: 1, FlightNumber: "AI101"}}
		missing := missingFlights(existing, seeds)
		require.Len(t, missing, 1)
		assert.Equal(t, "AI202", missing[0].FlightNumber)
	})

	t.Run("fully seeded store gets nothing", func(t *testing.T) {
		existing := []domain.Flight{
			{ID: 1, FlightNumber: "AI101"},
			{ID: 2, FlightNumber: "AI202"},
		}
		assert.Empty(t, missingFlights(existing, seeds))
	})

	t.Run("unrelated flights are left alone", func(t *testing.T) {
		existing := []domain.Flight{{ID: 3, FlightNumber: "6E555"}}
		missing := missingFlights(existing, seeds)
		assert.Len(t, missing, 2)
	})
}
