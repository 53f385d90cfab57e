package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/catalog"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.Configure(io.Discard, "error", "")
	os.Exit(m.Run())
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, text string, topN int, filter string) ([]models.SearchResult, error) {
	args := m.Called(ctx, text, topN, filter)
	results, _ := args.Get(0).([]models.SearchResult)
	return results, args.Error(1)
}

func request(params map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/search", QueryStringParameters: params}
}

func TestHandleSearch(t *testing.T) {
	s := new(mockSearcher)
	results := []models.SearchResult{{ProductID: 42, Name: "Memphis Lamp", Category: "Home Decor", Decade: 1980, Distance: 0.31}}
	s.On("Search", mock.Anything, "neon lamp", 3, "category = 'Home Decor' AND decade >= 1980 AND decade <= 1990").
		Return(results, nil).Once()

	h := newSearchHandler(s, catalog.DefaultTables())
	resp, err := h.handle(context.Background(), request(map[string]string{
		"q":          "neon lamp",
		"category":   "Home Decor",
		"min_decade": "1980",
		"max_decade": "1990",
		"limit":      "3",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body searchResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "neon lamp", body.Query)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, results, body.Results)
	s.AssertExpectations(t)
}

func TestHandleSearchDefaults(t *testing.T) {
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "teak", 5, "").Return(nil, nil).Once()

	resp, err := newSearchHandler(s, catalog.DefaultTables()).handle(context.Background(), request(map[string]string{"q": "teak"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(mustField(t, resp.Body, "results")))
	s.AssertExpectations(t)
}

func mustField(t *testing.T, body, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m[field]
}

func TestHandleSearchBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{"missing query", map[string]string{}, "query parameter 'q' is required"},
		{"blank query", map[string]string{"q": "  "}, "query parameter 'q' is required"},
		{"unknown category", map[string]string{"q": "x", "category": "Spaceships"}, `unknown category "Spaceships"`},
		{"category list in message", map[string]string{"q": "x", "category": "furniture"}, "want one of: Furniture, Electronics, Media, Fashion, Home Decor, Collectibles"},
		{"injected category", map[string]string{"q": "x", "category": "Furniture' OR 1=1 --"}, "unknown category"},
		{"non-integer decade", map[string]string{"q": "x", "min_decade": "sixties"}, "min_decade must be an integer"},
		{"inverted decades", map[string]string{"q": "x", "min_decade": "1990", "max_decade": "1950"}, "min_decade must not exceed max_decade"},
		{"limit too large", map[string]string{"q": "x", "limit": "500"}, "limit must be an integer between 1 and 50"},
		{"limit not a number", map[string]string{"q": "x", "limit": "five"}, "limit must be an integer between 1 and 50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := new(mockSearcher)
			resp, err := newSearchHandler(s, catalog.DefaultTables()).handle(context.Background(), request(tt.params))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body struct{ Message string }
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
			assert.Contains(t, body.Message, tt.want)
			s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleSearchFailure(t *testing.T) {
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "radio", 5, "").Return(nil, errors.New("clickhouse: connection refused")).Once()

	resp, err := newSearchHandler(s, catalog.DefaultTables()).handle(context.Background(), request(map[string]string{"q": "radio"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Failed to search products"}`, resp.Body)
}
