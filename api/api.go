package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"ipapi-go/errors"
	"ipapi-go/logger"
)

const (
	defaultBaseUrl = "http://ip-api.com"
	defaultProUrl  = "https://pro.ip-api.com"
)

type apiClient struct {
	key        string
	httpClient *http.Client
	logger     logger.Logger
	baseUrl    string
	proUrl     string
}

func newApiClient(
	key string,
	httpClient *http.Client,
	logger logger.Logger,
	baseUrl string,
	proUrl string,
) *apiClient {
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	if proUrl == "" {
		proUrl = defaultProUrl
	}
	return &apiClient{
		key:        key,
		httpClient: httpClient,
		logger:     logger,
		baseUrl:    baseUrl,
		proUrl:     proUrl,
	}
}

// endpointUrl builds the full request URL. A configured API key routes
// the request to the pro host, which requires HTTPS, and rides along as
// the key query parameter.
func (c *apiClient) endpointUrl(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	host := c.baseUrl
	if c.key != "" {
		host = c.proUrl
		query.Set("key", c.key)
	}
	endpoint := host + "/" + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

func (c *apiClient) getJson(
	ctx context.Context,
	path string,
	query url.Values,
	resData any,
) (http.Header, *errors.ApiError) {
	return c.sendJson(ctx, http.MethodGet, path, query, nil, resData)
}

func (c *apiClient) postJson(
	ctx context.Context,
	path string,
	query url.Values,
	reqData any,
	resData any,
) (http.Header, *errors.ApiError) {
	return c.sendJson(ctx, http.MethodPost, path, query, reqData, resData)
}

func (c *apiClient) sendJson(
	ctx context.Context,
	httpMethod string,
	path string,
	query url.Values,
	reqData any,
	resData any,
) (http.Header, *errors.ApiError) {
	body, headers, err := c.send(ctx, httpMethod, path, query, reqData)
	if err != nil {
		return headers, err
	}
	jsonErr := json.Unmarshal(body, resData)
	if jsonErr != nil {
		return headers, &errors.ApiError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_JSON_PARSE,
			SourceErr:      jsonErr,
			Body:           body,
			HttpStatusCode: http.StatusOK,
		}
	}
	return headers, nil
}

// send performs one HTTP exchange. Response headers are returned even
// on a non-200 status: the rate budget headers are valid on every
// completed exchange and the caller observes them unconditionally.
func (c *apiClient) send(
	ctx context.Context,
	httpMethod string,
	path string,
	query url.Values,
	reqData any,
) ([]byte, http.Header, *errors.ApiError) {
	endpoint := c.endpointUrl(path, query)

	var err error
	var req *http.Request

	if reqData != nil {
		data, jsonErr := json.Marshal(reqData)
		if jsonErr != nil {
			return nil, nil, &errors.ApiError{
				Stage:     errors.STAGE_BEFORE_REQUEST,
				Type:      errors.TYPE_JSON_PARSE,
				SourceErr: jsonErr,
			}
		}
		req, err = http.NewRequestWithContext(
			ctx, httpMethod, endpoint, bytes.NewBuffer(data),
		)
	} else {
		req, err = http.NewRequestWithContext(
			ctx, httpMethod, endpoint, nil,
		)
	}

	if err != nil {
		return nil, nil, &errors.ApiError{
			Stage:     errors.STAGE_BEFORE_REQUEST,
			Type:      errors.TYPE_REQUEST_PREP,
			SourceErr: err,
		}
	}

	if reqData != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf("api: %s %s", httpMethod, req.URL.Path)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &errors.ApiError{
			Stage:     errors.STAGE_REQUEST,
			Type:      errors.TYPE_IO,
			SourceErr: err,
		}
	}

	if res.StatusCode != http.StatusOK {
		var body []byte
		if res.Body != nil {
			body, _ = io.ReadAll(res.Body)
			defer func() { _ = res.Body.Close() }()
		}
		return body, res.Header, &errors.ApiError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_HTTP_STATUS,
			Body:           body,
			HttpStatusCode: res.StatusCode,
		}
	}

	body, err := io.ReadAll(res.Body)
	defer func() { _ = res.Body.Close() }()
	if err != nil {
		return body, res.Header, &errors.ApiError{
			Stage:          errors.STAGE_AFTER_REQUEST,
			Type:           errors.TYPE_IO,
			Body:           body,
			HttpStatusCode: res.StatusCode,
			SourceErr:      err,
		}
	}

	return body, res.Header, nil
}
