package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStationRefreshEvent_Valid(t *testing.T) {
	tests := []struct {
		name        string
		event       *StationRefreshEvent
		expected    bool
		description string
	}{
		{
			name:        "constructed event",
			event:       NewStationRefreshEvent(500, "user-1", RefreshReasonFavoriteAdded),
			expected:    true,
			description: "Should be valid when built by the constructor",
		},
		{
			name:        "nil request id",
			event:       &StationRefreshEvent{StationID: 500, Reason: RefreshReasonManual},
			expected:    false,
			description: "Should be invalid without request id",
		},
		{
			name:        "zero station",
			event:       &StationRefreshEvent{RequestID: uuid.New(), StationID: 0},
			expected:    false,
			description: "Should be invalid without a station",
		},
		{
			name:        "nil event",
			event:       nil,
			expected:    false,
			description: "Should be invalid when nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Valid(), tt.description)
		})
	}
}

// Helper function to create string pointers
func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
