package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/catalog"
	"github.com/nostalgiabin/catalog-service/pkg/database"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

const maxLimit = 50

type searcher interface {
	Search(ctx context.Context, text string, topN int, filter string) ([]models.SearchResult, error)
}

type searchResponse struct {
	RequestID string                `json:"request_id"`
	Query     string                `json:"query"`
	Filter    string                `json:"filter,omitempty"`
	Results   []models.SearchResult `json:"results"`
}

type searchHandler struct {
	search searcher
	tables *catalog.Tables
}

func newSearchHandler(s searcher, tables *catalog.Tables) *searchHandler {
	return &searchHandler{search: s, tables: tables}
}

// searchParams is a validated GET /search query string.
type searchParams struct {
	query  string
	limit  int
	filter string
}

func (h *searchHandler) parse(params map[string]string) (searchParams, error) {
	p := searchParams{query: strings.TrimSpace(params["q"]), limit: database.DefaultLimit}
	if p.query == "" {
		return p, fmt.Errorf("query parameter 'q' is required")
	}

	if v := params["limit"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			return p, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
		}
		p.limit = n
	}

	filter := new(database.Filter)
	if v := params["category"]; v != "" {
		category, ok := h.tables.Category(v)
		if !ok {
			return p, fmt.Errorf("unknown category %q, want one of: %s", v, strings.Join(h.tables.CategoryNames(), ", "))
		}
		filter.Eq("category", category.Name)
	}

	minDecade, hasMin, err := intParam(params, "min_decade")
	if err != nil {
		return p, err
	}
	maxDecade, hasMax, err := intParam(params, "max_decade")
	if err != nil {
		return p, err
	}
	if hasMin && hasMax && minDecade > maxDecade {
		return p, fmt.Errorf("min_decade must not exceed max_decade")
	}
	if hasMin {
		filter.AtLeast("decade", minDecade)
	}
	if hasMax {
		filter.AtMost("decade", maxDecade)
	}

	p.filter = filter.String()
	return p, nil
}

func intParam(params map[string]string, key string) (int, bool, error) {
	v := params[key]
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer", key)
	}
	return n, true, nil
}

func (h *searchHandler) handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := uuid.NewString()
	log := logging.Logger().With().Str("request_id", requestID).Logger()
	log.Info().Str("path", request.Path).Msg("Received request")

	params, err := h.parse(request.QueryStringParameters)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected search request")
		return errorResponse(http.StatusBadRequest, err.Error()), nil
	}

	results, err := h.search.Search(ctx, params.query, params.limit, params.filter)
	if err != nil {
		log.Error().Err(err).Msg("Search failed")
		return errorResponse(http.StatusInternalServerError, "Failed to search products"), nil
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	responseBody, err := json.Marshal(searchResponse{
		RequestID: requestID,
		Query:     params.query,
		Filter:    params.filter,
		Results:   results,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling results to JSON")
		return errorResponse(http.StatusInternalServerError, "Failed to format response"), nil
	}

	log.Info().Int("results", len(results)).Msg("Search completed")
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    responseHeaders(),
		Body:       string(responseBody),
	}, nil
}

func responseHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    responseHeaders(),
		Body:       string(body),
	}
}
