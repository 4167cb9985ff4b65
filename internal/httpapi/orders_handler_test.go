package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/orders"
)

// --- Mock ---

type orderServiceMock struct {
	mu          sync.Mutex
	list        []domain.Order
	cancelCalls int
	err         error
}

func (m *orderServiceMock) Create(ctx context.Context, payload orders.CreateOrderPayload) (domain.Order, error) {
	return domain.Order{}, errors.New("not used")
}

func (m *orderServiceMock) List(ctx context.Context) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *orderServiceMock) Get(ctx context.Context, id int64) (domain.Order, error) {
	for _, o := range m.list {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, orders.ErrOrderNotFound
}

func (m *orderServiceMock) Cancel(ctx context.Context, id int64) (domain.Order, error) {
	m.mu.Lock()
	m.cancelCalls++
	m.mu.Unlock()
	if m.err != nil {
		return domain.Order{}, m.err
	}
	for _, o := range m.list {
		if o.ID == id {
			o.Status = domain.OrderStatusCancelled
			return o, nil
		}
	}
	return domain.Order{}, orders.ErrOrderNotFound
}

func (m *orderServiceMock) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	return domain.Order{}, errors.New("not used")
}

// --- helpers ---

func withOrderID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("order_id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testOrders() []domain.Order {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	return []domain.Order{
		{ID: 1, Status: domain.OrderStatusPending, OriginalPrice: 1000, FinalPrice: 1000, OrderDate: now},
		{ID: 2, Status: domain.OrderStatusShipped, OriginalPrice: 500, FinalPrice: 450, OrderDate: now},
		{ID: 3, Status: domain.OrderStatusDelivered, OriginalPrice: 200, FinalPrice: 200, OrderDate: now},
	}
}

func newOrdersFixture(service *orderServiceMock) *OrdersHandler {
	return NewOrdersHandler(orders.NewTracker(service, nil), 5*time.Second)
}

// --- List tests ---

func TestListOrders_DecoratesWithProgress(t *testing.T) {
	handler := newOrdersFixture(&orderServiceMock{list: testOrders()})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/orders", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response []OrderDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(response))
	}

	byID := map[int64]OrderDTO{}
	for _, o := range response {
		byID[o.ID] = o
	}

	if dto := byID[1]; dto.Progress != 25 || !dto.ShowProgress || !dto.CanCancel {
		t.Errorf("pending order: expected progress 25 and cancellable, got %+v", dto)
	}
	if dto := byID[2]; dto.Progress != 50 || !dto.CanCancel {
		t.Errorf("shipped order: expected progress 50 and cancellable, got %+v", dto)
	}
	if dto := byID[3]; dto.Progress != 100 || dto.CanCancel {
		t.Errorf("delivered order: expected progress 100 and not cancellable, got %+v", dto)
	}
}

func TestListOrders_StatusFilter(t *testing.T) {
	handler := newOrdersFixture(&orderServiceMock{list: testOrders()})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/orders?status=SHIPPED", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var response []OrderDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if len(response) != 1 || response[0].ID != 2 {
		t.Errorf("expected only order 2, got %+v", response)
	}
}

func TestListOrders_UnknownStatus(t *testing.T) {
	handler := newOrdersFixture(&orderServiceMock{list: testOrders()})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/orders?status=LOST", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestListOrders_StaleOnRefreshFailure(t *testing.T) {
	service := &orderServiceMock{list: testOrders()}
	handler := newOrdersFixture(service)

	// warm the tracker, then break the collaborator
	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/orders", nil))
	service.err = errors.New("connection refused")

	recorder = httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/orders", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d with stale data, got %d", http.StatusOK, recorder.Code)
	}

	var response []OrderDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if len(response) != 3 {
		t.Errorf("expected 3 stale orders, got %d", len(response))
	}
}

func TestListOrders_EmptyIsNotNull(t *testing.T) {
	handler := newOrdersFixture(&orderServiceMock{})

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/orders", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(recorder.Body.Bytes(), &raw); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if string(raw) == "null" {
		t.Error("expected empty JSON array [], got null")
	}
}

// --- Get tests ---

func TestGetOrder_Found(t *testing.T) {
	service := &orderServiceMock{list: testOrders()}
	handler := newOrdersFixture(service)

	// tracker learns orders through refresh
	handler.List(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/orders", nil))

	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("GET", "/api/v1/orders/2", nil), "2")
	handler.Get(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, recorder.Code)
	}

	var dto OrderDTO
	json.NewDecoder(recorder.Body).Decode(&dto)
	if dto.ID != 2 || dto.Status != domain.OrderStatusShipped {
		t.Errorf("unexpected order: %+v", dto)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	handler := newOrdersFixture(&orderServiceMock{})

	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("GET", "/api/v1/orders/999", nil), "999")
	handler.Get(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestGetOrder_BadID(t *testing.T) {
	handler := newOrdersFixture(&orderServiceMock{})

	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("GET", "/api/v1/orders/abc", nil), "abc")
	handler.Get(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

// --- Cancel tests ---

func TestCancelOrder_Success(t *testing.T) {
	service := &orderServiceMock{list: testOrders()}
	handler := newOrdersFixture(service)
	handler.List(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/orders", nil))

	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("PUT", "/api/v1/orders/1/cancel", nil), "1")
	handler.Cancel(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var dto OrderDTO
	json.NewDecoder(recorder.Body).Decode(&dto)
	if dto.Status != domain.OrderStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", dto.Status)
	}
	if dto.ShowProgress {
		t.Error("cancelled orders must not show delivery progress")
	}
}

func TestCancelOrder_DeliveredRejectedLocally(t *testing.T) {
	service := &orderServiceMock{list: testOrders()}
	handler := newOrdersFixture(service)
	handler.List(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/orders", nil))

	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("PUT", "/api/v1/orders/3/cancel", nil), "3")
	handler.Cancel(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected %d, got %d", http.StatusConflict, recorder.Code)
	}
	if service.cancelCalls != 0 {
		t.Errorf("collaborator must not be called for a delivered order, got %d calls", service.cancelCalls)
	}
}

func TestCancelOrder_ServiceFailure(t *testing.T) {
	service := &orderServiceMock{list: testOrders()}
	handler := newOrdersFixture(service)
	handler.List(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/orders", nil))
	service.err = errors.New("connection refused")

	recorder := httptest.NewRecorder()
	request := withOrderID(httptest.NewRequest("PUT", "/api/v1/orders/1/cancel", nil), "1")
	handler.Cancel(recorder, request)

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("expected %d, got %d", http.StatusBadGateway, recorder.Code)
	}
}
