package nbia

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// NBIA CLIENT — metadata-search API
// ============================================================================
// Thin typed wrapper over the NBIA REST endpoints the report pipeline needs:
// token auth, collection catalog, per-collection study inventory, advanced QC
// search, and batched series metadata. Every fetch failure wraps ErrFetch so
// the caller can surface one descriptive message; a bad login wraps
// ErrAuthentication.
// ============================================================================

// Error taxonomy. Callers match with errors.Is.
var (
	ErrAuthentication = errors.New("nbia: authentication failed")
	ErrFetch          = errors.New("nbia: fetch failed")
)

// Client talks to one NBIA deployment. Create with NewClient, call
// Authenticate once, then fetch. Not safe for concurrent authentication.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// NewClient builds a client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: http, log: log}
}

// Authenticate exchanges credentials for a bearer token and installs it on
// the client. A rejected login returns ErrAuthentication; transport failures
// return ErrFetch.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	var token tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username":   username,
			"password":   password,
			"client_id":  "NBIA",
			"grant_type": "password",
		}).
		SetResult(&token).
		Post("/oauth/token")
	if err != nil {
		return fmt.Errorf("%w: token request: %v", ErrFetch, err)
	}
	if resp.IsError() || token.AccessToken == "" {
		c.log.Warn("NBIA login rejected", zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("%w: status %d", ErrAuthentication, resp.StatusCode())
	}

	c.http.SetAuthToken(token.AccessToken)
	c.log.Info("NBIA login successful", zap.Int("expires_in", token.ExpiresIn))
	return nil
}

// Collections returns the full collection catalog.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	var out []Collection
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/getCollectionValues")
	if err := c.checkResponse(resp, err, "getCollectionValues"); err != nil {
		return nil, err
	}
	c.log.Debug("fetched collection catalog", zap.Int("count", len(out)))
	return out, nil
}

// Studies returns the study inventory of one collection.
func (c *Client) Studies(ctx context.Context, collection string) ([]Study, error) {
	var out []Study
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("Collection", collection).
		SetResult(&out).
		Get("/getStudy")
	if err := c.checkResponse(resp, err, "getStudy"); err != nil {
		return nil, err
	}
	c.log.Debug("fetched study inventory",
		zap.String("collection", collection),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// AdvancedQCSearch runs an advanced QC search and returns the result as a
// table with columns study, series, collectionSite.
func (c *Client) AdvancedQCSearch(ctx context.Context, criteria []Criterion) (*table.Table, error) {
	var rows []advancedSearchRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(criteria).
		SetResult(&rows).
		Post("/getAdvancedQCSearch")
	if err := c.checkResponse(resp, err, "getAdvancedQCSearch"); err != nil {
		return nil, err
	}

	out := table.New("study", "series", "collectionSite")
	for _, r := range rows {
		out.AppendRow(optStr(r.Study), optStr(r.Series), optStr(r.CollectionSite))
	}
	c.log.Debug("advanced QC search complete", zap.Int("rows", out.Len()))
	return out, nil
}

// SeriesMetadata looks up metadata for a batch of series UIDs in one call and
// returns a table with columns "Study UID" and "Number of images".
func (c *Client) SeriesMetadata(ctx context.Context, seriesUIDs []string) (*table.Table, error) {
	var rows []seriesMetadata
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"list": strings.Join(seriesUIDs, ",")}).
		SetResult(&rows).
		Post("/getSeriesMetadata2")
	if err := c.checkResponse(resp, err, "getSeriesMetadata2"); err != nil {
		return nil, err
	}

	out := table.New("Study UID", "Series UID", "Number of images")
	for _, r := range rows {
		out.AppendRow(optStr(r.StudyUID), optStr(r.SeriesUID), table.Num(r.NumberOfImages))
	}
	c.log.Debug("fetched series metadata",
		zap.Int("requested", len(seriesUIDs)),
		zap.Int("rows", out.Len()),
	)
	return out, nil
}

// checkResponse folds transport and HTTP-status failures into ErrFetch.
func (c *Client) checkResponse(resp *resty.Response, err error, endpoint string) error {
	if err != nil {
		c.log.Error("NBIA request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrFetch, endpoint, err)
	}
	if resp.IsError() {
		c.log.Error("NBIA returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode()),
		)
		return fmt.Errorf("%w: %s: status %d", ErrFetch, endpoint, resp.StatusCode())
	}
	return nil
}

// optStr maps an empty API string to a null cell.
func optStr(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	return table.Str(s)
}
