package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNameInfo_IsCustom(t *testing.T) {
	tests := []struct {
		name     string
		info     NameInfo
		expected bool
	}{
		{"display differs from api name", NameInfo{DisplayName: "Secret Falls", OriginalAPIName: "Bear Creek"}, true},
		{"display equals api name", NameInfo{DisplayName: "Bear Creek", OriginalAPIName: "Bear Creek"}, false},
		{"no api name known", NameInfo{DisplayName: "Creek A"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.IsCustom())
		})
	}
}

func TestNameInfo_HasUserChoice(t *testing.T) {
	now := time.Now()

	assert.True(t, (&NameInfo{DisplayName: "Secret Falls", OriginalAPIName: "Bear Creek"}).HasUserChoice())
	assert.True(t, (&NameInfo{DisplayName: "My Spot", EditedAt: &now}).HasUserChoice())
	assert.False(t, (&NameInfo{DisplayName: "Bear Creek", OriginalAPIName: "Bear Creek"}).HasUserChoice())
	assert.False(t, (&NameInfo{DisplayName: "   ", EditedAt: &now}).HasUserChoice())
}
