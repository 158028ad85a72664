// Package remotehttp is the out-of-process CatalogPort adapter. Binding it
// in place of the in-process adapter moves the products module behind an
// HTTP seam without touching any caller.
package remotehttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
)

const defaultTimeout = 5 * time.Second

type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string, client *http.Client) *CatalogClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *CatalogClient) GetProductSnapshot(ctx context.Context, productID string) (ports.ProductSnapshot, error) {
	endpoint := c.baseURL + "/internal/catalog/v1/products/" + url.PathEscape(productID) + "/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.ProductSnapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.ProductSnapshot{}, fmt.Errorf("catalog snapshot request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ports.ProductSnapshot{}, domainerrors.ErrProductNotFound
	default:
		return ports.ProductSnapshot{}, fmt.Errorf("catalog snapshot request: unexpected status %d", resp.StatusCode)
	}

	var snapshot ports.ProductSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return ports.ProductSnapshot{}, fmt.Errorf("catalog snapshot decode: %w", err)
	}
	return snapshot, nil
}
