package api

import (
	"context"
	"net/http"
	"testing"

	"ipapi-go/logger"
	"ipapi-go/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Geo_Single_url_shape(t *testing.T) {
	testCases := []struct {
		name      string
		key       string
		query     types.CanonicalQuery
		expectUrl string
	}{
		{
			name:      "bare target",
			query:     types.CanonicalQuery{Query: "1.1.1.1"},
			expectUrl: "http://ip-api.com/json/1.1.1.1",
		},
		{
			name: "fields and lang",
			query: types.CanonicalQuery{
				Query:  "8.8.8.8",
				Fields: []string{"lat", "lon", "status", "message", "query"},
				Lang:   "de",
			},
			expectUrl: "http://ip-api.com/json/8.8.8.8?fields=lat%2Clon%2Cstatus%2Cmessage%2Cquery&lang=de",
		},
		{
			name:      "domain target",
			query:     types.CanonicalQuery{Query: "example.com"},
			expectUrl: "http://ip-api.com/json/example.com",
		},
		{
			name:      "key forces pro host and https",
			key:       "secret",
			query:     types.CanonicalQuery{Query: "1.1.1.1"},
			expectUrl: "https://pro.ip-api.com/json/1.1.1.1?key=secret",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			c := httpClient([]byte(`{"status":"success"}`), 200, nil)
			geo := NewGeoApi(tt.key, c, &logger.Noop{}, "", "")

			res, _, err := geo.Single(context.Background(), tt.query)
			assert.Nil(t, err)
			assert.Equal(t, "success", res.Status)

			tr, _ := c.Transport.(*testTransport)
			assert.Equal(t, tt.expectUrl, tr.Url())
			assert.Equal(t, http.MethodGet, tr.Method())
		})
	}
}

func Test_Geo_Batch_request_shape(t *testing.T) {
	c := httpClient(
		[]byte(`[{"status":"success","query":"1.1.1.1"},{"status":"success","query":"8.8.8.8"}]`),
		200, nil,
	)
	geo := NewGeoApi("", c, &logger.Noop{}, "", "")

	queries := []types.CanonicalQuery{
		{Query: "1.1.1.1", Fields: []string{"lat", "status", "message", "query"}},
		{Query: "8.8.8.8", Lang: "ru"},
	}

	res, _, err := geo.Batch(context.Background(), queries, "de")
	assert.Nil(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "1.1.1.1", res[0].Query)
	assert.Equal(t, "8.8.8.8", res[1].Query)

	tr, _ := c.Transport.(*testTransport)
	assert.Equal(t, http.MethodPost, tr.Method())
	assert.Equal(t, "http://ip-api.com/batch?lang=de", tr.Url())
	assert.Equal(t, "application/json", tr.req.Header.Get("Content-Type"))
	assert.JSONEq(t,
		`[
			{"query":"1.1.1.1","fields":["lat","status","message","query"]},
			{"query":"8.8.8.8","lang":"ru"}
		]`,
		string(tr.Body()),
	)
}

func Test_Geo_Batch_headers_surface_on_429(t *testing.T) {
	c := httpClient([]byte(``), 429, nil)
	tr, _ := c.Transport.(*testTransport)
	tr.res.Header = http.Header{}
	tr.res.Header.Set("X-Rl", "0")
	tr.res.Header.Set("X-Ttl", "17")

	geo := NewGeoApi("", c, &logger.Noop{}, "", "")

	_, headers, err := geo.Batch(
		context.Background(),
		[]types.CanonicalQuery{{Query: "1.1.1.1"}},
		"",
	)
	require.NotNil(t, err)
	assert.Equal(t, 429, err.HttpStatusCode)
	assert.Equal(t, "17", headers.Get("X-Ttl"))
}
