package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/squareeyes/storefront/pkg/config"
	pkgerrors "github.com/squareeyes/storefront/pkg/errors"
)

// Client fetches the catalog over HTTPS. The upstream responds with a
// {"data": [...]} envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type listEnvelope struct {
	Data []Item `json:"data"`
}

type itemEnvelope struct {
	Data Item `json:"data"`
}

// List fetches the full catalog. A non-2xx response is a hard failure
// for the calling view, never for the cart itself.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog responded with HTTP %d", res.StatusCode))
	}

	var envelope listEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	if envelope.Data == nil {
		return []Item{}, nil
	}
	return envelope.Data, nil
}

// Get fetches a single catalog item by id.
func (c *Client) Get(ctx context.Context, id string) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Item{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Item{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog item")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Item{}, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog responded with HTTP %d", res.StatusCode))
	}

	var envelope itemEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return Item{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return envelope.Data, nil
}
