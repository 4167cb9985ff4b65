package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/shopkart/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is the external product catalog collaborator.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	GetRelated(ctx context.Context, id int64) ([]domain.Product, error)
}

// rawProduct tolerates the upstream payload ambiguity: some sources send
// name/image, others title/imageUrl. Normalization happens here and only
// here; past this boundary there is one canonical Product shape.
type rawProduct struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	ImageURL    string         `json:"imageUrl"`
	Rating      *domain.Rating `json:"rating"`
}

func (r rawProduct) normalize() domain.Product {
	name := r.Name
	if name == "" {
		name = r.Title
	}
	image := r.ImageURL
	if image == "" {
		image = r.Image
	}
	return domain.Product{
		ID:          r.ID,
		Name:        name,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		ImageURL:    image,
		Rating:      r.Rating,
	}
}

// Client talks to the catalog REST API. Per-product fetches go through
// singleflight so concurrent requests for the same id collapse into one
// upstream call.
type Client struct {
	baseURL string
	client  *http.Client
	sfg     singleflight.Group
}

func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, client: client}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.fetchList(ctx, c.baseURL+"/products")
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	v, err, _ := c.sfg.Do(fmt.Sprintf("product:%d", id), func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/products/%d", c.baseURL, id)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build product request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog call: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog status %d", resp.StatusCode)
		}

		var raw rawProduct
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		return raw.normalize(), nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (c *Client) GetRelated(ctx context.Context, id int64) ([]domain.Product, error) {
	return c.fetchList(ctx, fmt.Sprintf("%s/products/%d/related", c.baseURL, id))
}

func (c *Client) fetchList(ctx context.Context, endpoint string) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d", resp.StatusCode)
	}

	var raws []rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, raw.normalize())
	}
	return products, nil
}
