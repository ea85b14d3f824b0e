package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/bars/daily":
			assert.Equal(t, "3mo", r.URL.Query().Get("range"))
			// out of order on purpose
			_, _ = w.Write([]byte(`[{"timestamp":1704292200,"close":101},{"timestamp":1704205800,"close":100}]`))
		case "/api/v1/fundamentals":
			_, _ = w.Write([]byte(`{"last_close":101,"market_cap":5000000000,"beta":0.9}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", 0)

	series, err := f.FetchHistory(context.Background(), "MSFT", model.Period3Month)
	require.NoError(t, err)
	require.Len(t, series.Bars, 2)
	assert.Equal(t, 100.0, series.Bars[0].Close)
	assert.Equal(t, 101.0, series.Bars[1].Close)

	fund, err := f.FetchFundamentals(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, model.Some(101), fund.LastClose)
	assert.Equal(t, model.Some(5), fund.MarketCapBillions)
	assert.Equal(t, model.Some(0.9), fund.Beta)
	assert.False(t, fund.PERatioTTM.Valid)
}

func TestRESTFetcher_NotFoundIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "", 0)
	_, err := f.FetchHistory(context.Background(), "MSFT", model.Period3Month)
	assert.ErrorIs(t, err, ErrNoData)
}
