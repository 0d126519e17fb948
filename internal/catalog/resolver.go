// Package catalog fetches the authoritative product and category names
// from the external product service. Results are never cached; every
// call re-fetches.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/bleupos/promo-service/internal/models"
)

type productDetail struct {
	ProductName     string `json:"ProductName"`
	ProductCategory string `json:"ProductCategory"`
}

type Resolver struct {
	detailsURL string
	client     *http.Client
}

func NewResolver(detailsURL string) *Resolver {
	return &Resolver{
		detailsURL: detailsURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchChoices returns the deduplicated, sorted product and category
// names known to the catalog. Network failures map to a 503-class
// error; non-2xx upstream responses to a 502-class error carrying the
// upstream status and body.
func (r *Resolver) FetchChoices(ctx context.Context, token string) (products, categories []string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.detailsURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, nil, &models.UnavailableError{Service: "products", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &models.UpstreamError{Service: "products", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var details []productDetail
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, nil, fmt.Errorf("decode catalog response: %w", err)
	}

	productSet := make(map[string]struct{})
	categorySet := make(map[string]struct{})
	for _, d := range details {
		if d.ProductName != "" {
			productSet[d.ProductName] = struct{}{}
		}
		if d.ProductCategory != "" {
			categorySet[d.ProductCategory] = struct{}{}
		}
	}
	return sortedKeys(productSet), sortedKeys(categorySet), nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
