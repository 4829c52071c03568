package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationAPIData_UnmarshalJSON(t *testing.T) {
	t.Run("known fields and extras", func(t *testing.T) {
		var d StationAPIData
		err := json.Unmarshal([]byte(`{"name":"Provo River","class":"II","latitude":"40.33","longitude":-111.6,"gauge":"10155000"}`), &d)
		require.NoError(t, err)

		assert.Equal(t, "Provo River", d.APIName())
		assert.Equal(t, "II", *d.Class)
		assert.Nil(t, d.Difficulty)
		require.NotNil(t, d.Coordinates())
		assert.Equal(t, 40.33, d.Coordinates().Lat)
		assert.Equal(t, -111.6, d.Coordinates().Lon)
		assert.JSONEq(t, `"10155000"`, string(d.Extra["gauge"]))
	})

	t.Run("null and blank values are absent", func(t *testing.T) {
		var d StationAPIData
		err := json.Unmarshal([]byte(`{"name":null,"latitude":"","longitude":null}`), &d)
		require.NoError(t, err)
		assert.Equal(t, "", d.APIName())
		assert.Nil(t, d.Coordinates())
	})

	t.Run("wrong types are rejected", func(t *testing.T) {
		var d StationAPIData
		assert.Error(t, json.Unmarshal([]byte(`{"name":42}`), &d))
		assert.Error(t, json.Unmarshal([]byte(`{"latitude":"north"}`), &d))
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
		assert.Error(t, json.Unmarshal([]byte(`null`), &d))
	})

	t.Run("marshal keeps extras", func(t *testing.T) {
		d := StationAPIData{
			Name:     strPtr("Bear Creek"),
			Latitude: floatPtr(40.1),
			Extra:    map[string]json.RawMessage{"flow_cfs": json.RawMessage(`312`)},
		}
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Bear Creek","latitude":40.1,"flow_cfs":312}`, string(data))
	})
}

func TestCachedStationPayload_ExpiredAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &CachedStationPayload{StationID: 1, CachedAt: now.Add(-2 * time.Hour)}

	assert.False(t, p.ExpiredAt(now, 0), "zero max age never expires")
	assert.False(t, p.ExpiredAt(now, 3*time.Hour))
	assert.True(t, p.ExpiredAt(now, time.Hour))
}

func TestCachedStationPayload_Valid(t *testing.T) {
	assert.True(t, (&CachedStationPayload{StationID: 1, CachedAt: time.Now()}).Valid())
	assert.False(t, (&CachedStationPayload{StationID: 0, CachedAt: time.Now()}).Valid())
	assert.False(t, (&CachedStationPayload{StationID: 1}).Valid())

	var p *CachedStationPayload
	assert.False(t, p.Valid())
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "Stream 12345", FallbackName(12345))
}
