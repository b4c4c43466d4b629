package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeES stands in for a cluster; the product header is required or the
// client refuses the response.
func fakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestProducts_DecodesHits(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	client := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": 7, "name": "Widget", "description": "a widget", "price": "10.00", "stock_quantity": 5}},
					{"_source": {"id": 9, "name": "Gadget", "description": "a gadget", "price": "4.50", "stock_quantity": 1}}
				]
			}
		}`))
	})

	total, prods, err := Products(context.Background(), client, ProductIndex, "widget", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, prods, 2)
	assert.EqualValues(t, 7, prods[0].ID)
	assert.Equal(t, "Widget", prods[0].Name)
	assert.Equal(t, "10.00", prods[0].Price.StringFixed(2))
	assert.Equal(t, "Gadget", prods[1].Name)

	// the query carries the term and the pagination window
	query := gotBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "widget", query["query"])
	assert.EqualValues(t, 0, gotBody["from"])
	assert.EqualValues(t, 10, gotBody["size"])
}

func TestProducts_NoMatches(t *testing.T) {
	t.Parallel()

	client := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	})

	total, prods, err := Products(context.Background(), client, ProductIndex, "nothing", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, prods)
}

func TestProducts_ClusterError(t *testing.T) {
	t.Parallel()

	client := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "unavailable"}`))
	})

	_, _, err := Products(context.Background(), client, ProductIndex, "widget", 0, 10)
	assert.Error(t, err)
}
