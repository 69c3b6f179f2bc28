package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"ipapi-go/errors"
	"ipapi-go/logger"
	"ipapi-go/types"
)

const (
	pathJson  = "json"
	pathBatch = "batch"
)

// Geo implements the two geolocation endpoints of the ip-api service:
// the single-query JSON endpoint and the batch endpoint.
// See: https://ip-api.com/docs
//
// Geo performs exactly one HTTP exchange per call. Rate governance and
// retries are layered on top by the dispatcher; the returned headers let
// it observe the rate budget on every completed exchange.
type Geo struct {
	api *apiClient
}

func NewGeoApi(
	key string,
	httpClient *http.Client,
	logger logger.Logger,
	baseUrl string,
	proUrl string,
) *Geo {
	return &Geo{
		api: newApiClient(key, httpClient, logger, baseUrl, proUrl),
	}
}

// Single queries GET /json/{target}. The single endpoint accepts domain
// name targets in addition to IP literals.
func (g *Geo) Single(
	ctx context.Context,
	query types.CanonicalQuery,
) (types.Location, http.Header, *errors.ApiError) {
	values := url.Values{}
	if len(query.Fields) > 0 {
		values.Set("fields", strings.Join(query.Fields, ","))
	}
	if query.Lang != "" {
		values.Set("lang", query.Lang)
	}

	var res types.Location
	headers, err := g.api.getJson(
		ctx, pathJson+"/"+url.PathEscape(query.Query), values, &res,
	)
	return res, headers, err
}

// Batch queries POST /batch with a JSON array body, one element per
// canonical query. The response array is positionally aligned with the
// request array. lang is the call-level language applied by the service
// to elements that don't carry their own.
func (g *Geo) Batch(
	ctx context.Context,
	queries []types.CanonicalQuery,
	lang string,
) ([]types.Location, http.Header, *errors.ApiError) {
	values := url.Values{}
	if lang != "" {
		values.Set("lang", lang)
	}

	var res []types.Location
	headers, err := g.api.postJson(ctx, pathBatch, values, queries, &res)
	return res, headers, err
}
