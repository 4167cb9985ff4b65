package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopkart/storefront/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService is the external order persistence collaborator.
type OrderService interface {
	Create(ctx context.Context, payload CreateOrderPayload) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	Cancel(ctx context.Context, id int64) (domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
}

// CreateOrderPayload is the submission shape the order service accepts.
type CreateOrderPayload struct {
	AddressLine1  string            `json:"addressLine1"`
	State         string            `json:"state"`
	Pincode       string            `json:"pincode"`
	CartItems     []CartItemPayload `json:"cartItems"`
	OriginalPrice float64           `json:"originalPrice"`
	PromoCode     string            `json:"promoCode"`
	Status        string            `json:"status"`
}

type CartItemPayload struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// orderDTO is the order service's wire shape, mapped into domain.Order at
// this boundary.
type orderDTO struct {
	ID             int64          `json:"id"`
	AddressLine1   string         `json:"addressLine1"`
	State          string         `json:"state"`
	Pincode        string         `json:"pincode"`
	OriginalPrice  float64        `json:"originalPrice"`
	DiscountAmount float64        `json:"discountAmount"`
	FinalPrice     float64        `json:"finalPrice"`
	PromoCode      string         `json:"promoCode"`
	Status         string         `json:"status"`
	OrderDate      time.Time      `json:"orderDate"`
	DeliveryDate   *time.Time     `json:"deliveryDate"`
	OrderItems     []orderItemDTO `json:"orderItems"`
}

type orderItemDTO struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	TotalPrice  float64 `json:"totalPrice"`
}

func (d orderDTO) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(d.OrderItems))
	for _, item := range d.OrderItems {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			LineTotal: item.TotalPrice,
		})
	}
	return domain.Order{
		ID:    d.ID,
		Items: items,
		Address: domain.Address{
			Line1:   d.AddressLine1,
			State:   d.State,
			Pincode: d.Pincode,
		},
		OriginalPrice:  d.OriginalPrice,
		DiscountAmount: d.DiscountAmount,
		FinalPrice:     d.FinalPrice,
		PromoCode:      d.PromoCode,
		Status:         domain.OrderStatus(d.Status),
		OrderDate:      d.OrderDate,
		DeliveryDate:   d.DeliveryDate,
	}
}

// Client talks to the order service REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, client: client}
}

func (c *Client) Create(ctx context.Context, payload CreateOrderPayload) (domain.Order, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Order{}, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return domain.Order{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doOrder(req, http.StatusCreated, http.StatusOK)
}

func (c *Client) List(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order service call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order service status %d", resp.StatusCode)
	}

	var dtos []orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	out := make([]domain.Order, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, dto.toDomain())
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/orders/%d", c.baseURL, id), nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("build get request: %w", err)
	}
	return c.doOrder(req, http.StatusOK)
}

func (c *Client) Cancel(ctx context.Context, id int64) (domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/orders/%d/cancel", c.baseURL, id), nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("build cancel request: %w", err)
	}
	return c.doOrder(req, http.StatusOK)
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	endpoint := fmt.Sprintf("%s/orders/%d/status?status=%s", c.baseURL, id, status)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("build status request: %w", err)
	}
	return c.doOrder(req, http.StatusOK)
}

func (c *Client) doOrder(req *http.Request, okStatuses ...int) (domain.Order, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order service call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Order{}, ErrOrderNotFound
	}

	ok := false
	for _, status := range okStatuses {
		if resp.StatusCode == status {
			ok = true
			break
		}
	}
	if !ok {
		return domain.Order{}, fmt.Errorf("order service status %d", resp.StatusCode)
	}

	var dto orderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return dto.toDomain(), nil
}
