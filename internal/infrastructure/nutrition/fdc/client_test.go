package fdc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mealforge/importer/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.NutritionConfig{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		PageSize:          5,
		RequestsPerMinute: 6000,
		Timeout:           5 * time.Second,
	}, zap.NewNop())
}

func TestSearchReturnsCandidates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/foods/search", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		var body struct {
			Query    string `json:"query"`
			PageSize int    `json:"pageSize"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "flour", body.Query)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{"fdcId":169761,"description":"Wheat flour, white"}]}`))
	}))

	candidates, err := client.Search(context.Background(), "flour", 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "169761", candidates[0].ExternalID)
	assert.Equal(t, "Wheat flour, white", candidates[0].Description)
}

func TestSearchSwallowsServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	candidates, err := client.Search(context.Background(), "flour", 1)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSearchSwallowsThrottlingAndAuthFailures(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		candidates, err := client.Search(context.Background(), "flour", 1)
		require.NoError(t, err, status)
		assert.Empty(t, candidates, status)
	}
}

func TestDetailsReturnsNutrients(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/food/169761", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fdcId": 169761,
			"description": "Wheat flour, white",
			"foodNutrients": [
				{"nutrient": {"name": "Energy", "unitName": "kcal"}, "amount": 364},
				{"nutrient": {"name": "Protein", "unitName": "g"}, "amount": 10.3}
			]
		}`))
	}))

	detail, err := client.Details(context.Background(), "169761")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "169761", detail.ExternalID)
	require.Len(t, detail.Nutrients, 2)
	assert.Equal(t, "Energy", detail.Nutrients[0].Name)
	assert.InDelta(t, 364, detail.Nutrients[0].Amount, 1e-9)
}

func TestDetailsMissingFoodIsTypedAbsence(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	detail, err := client.Details(context.Background(), "0")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestUnreachableUpstreamIsSwallowed(t *testing.T) {
	client := NewClient(config.NutritionConfig{
		BaseURL:           "http://127.0.0.1:1",
		APIKey:            "test-key",
		RequestsPerMinute: 6000,
		Timeout:           500 * time.Millisecond,
	}, zap.NewNop())

	candidates, err := client.Search(context.Background(), "flour", 1)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	detail, err := client.Details(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, detail)
}
