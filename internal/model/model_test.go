package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(1)).Valid)
	assert.Equal(t, 3.5, Some(3.5).Or(0))
	assert.Equal(t, -1.0, NA.Or(-1))

	v := 2.0
	assert.Equal(t, Some(2), FromPtr(&v))
	assert.Equal(t, NA, FromPtr(nil))

	out, err := json.Marshal(struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}{Some(1.25), NA})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.25,"b":null}`, string(out))

	var in struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":null}`), &in))
	assert.Equal(t, Some(7), in.A)
	assert.False(t, in.B.Valid)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"1 Year", Period1Year, true},
		{"1y", Period1Year, true},
		{" ytd ", PeriodYTD, true},
		{"10 years", Period10Year, true},
		{"MAX", PeriodMax, true},
		{"1 week", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePeriod(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, Period6Month, ResolvePeriod("nonsense", DefaultPeriod))
	assert.Equal(t, "3 Months", Period3Month.Label())
}

func TestSectorProxies(t *testing.T) {
	assert.Len(t, SectorProxies, 11)

	s, ok := ParseSector("real estate")
	require.True(t, ok)
	proxy, ok := s.ProxySymbol()
	require.True(t, ok)
	assert.Equal(t, "XLRE", proxy)

	seen := map[string]bool{}
	for _, p := range SectorProxies {
		assert.False(t, seen[p], p)
		seen[p] = true
	}

	_, ok = ParseSector("Crypto")
	assert.False(t, ok)
}

func TestPriceSeries(t *testing.T) {
	var empty PriceSeries
	assert.True(t, empty.Empty())
	_, ok := empty.Last()
	assert.False(t, ok)

	s := PriceSeries{Bars: []OHLCV{{Close: 1}, {Close: 2}}}
	assert.Equal(t, []float64{1, 2}, s.Closes())
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 2.0, last.Close)
}
