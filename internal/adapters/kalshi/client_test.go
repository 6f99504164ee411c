package kalshi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/baserate/internal/domain"
)

func TestFetchOrderBooksSkipsOtherPlatforms(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		fmt.Fprint(w, `{"orderbook": {"yes": [[30, 100]], "no": [[65, 200]]}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	markets := []domain.Market{
		{ID: "RAIN-26JAN15", Platform: domain.PlatformKalshi},
		{ID: "0xabc123", Platform: domain.PlatformPolymarket},
	}

	books, err := c.FetchOrderBooks(context.Background(), markets)
	require.NoError(t, err)

	// Solo el ticker de Kalshi genera request; el conditionId ni se intenta
	require.Len(t, requested, 1)
	assert.Equal(t, "/markets/RAIN-26JAN15/orderbook", requested[0])

	require.Len(t, books, 1)
	assert.Contains(t, books, "RAIN-26JAN15")
	assert.Equal(t, 30.0, books["RAIN-26JAN15"].Yes.BestBid())
}
