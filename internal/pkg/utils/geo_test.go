package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStationID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12345", 12345, false},
		{" 500 ", 500, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStationID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalFloat(t *testing.T) {
	v, err := OptionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = OptionalFloat("40.25")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 40.25, *v)

	_, err = OptionalFloat("north")
	assert.Error(t, err)
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(40.3, -111.6))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, -181))
}
