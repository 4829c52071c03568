package validator

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rivr-station-service/internal/pkg/errors"
)

type sample struct {
	Name string   `json:"display_name" validate:"required,max=10"`
	Lat  *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
}

func TestValidateRequest(t *testing.T) {
	lat := 91.0

	err := ValidateRequest(&sample{Name: "", Lat: &lat})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidRequest))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	fields, ok := appErr.Details["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "required", fields["display_name"])
	assert.Equal(t, "lte", fields["lat"])

	assert.NoError(t, ValidateRequest(&sample{Name: "Provo"}))
}
