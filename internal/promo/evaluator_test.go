package promo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockValidator struct {
	result ValidationResult
	err    error
	calls  int
}

func (m *mockValidator) Validate(_ context.Context, _ string, _ float64) (ValidationResult, error) {
	m.calls++
	if m.err != nil {
		return ValidationResult{}, m.err
	}
	return m.result, nil
}

func TestEvaluate_EmptyCodeSkipsValidator(t *testing.T) {
	mock := &mockValidator{}
	sut := NewEvaluator(mock)

	for _, code := range []string{"", "   ", "\t\n"} {
		app := sut.Evaluate(context.Background(), code, 200)
		assert.False(t, app.Valid)
		assert.Equal(t, 0.0, app.DiscountAmount)
		assert.Equal(t, "promo code required", app.Message)
	}
	assert.Equal(t, 0, mock.calls)
}

func TestEvaluate_ValidCode(t *testing.T) {
	mock := &mockValidator{
		result: ValidationResult{Valid: true, DiscountAmount: 30, Message: "flat 30 off"},
	}
	sut := NewEvaluator(mock)

	app := sut.Evaluate(context.Background(), "FLAT30", 200)
	assert.True(t, app.Valid)
	assert.Equal(t, 30.0, app.DiscountAmount)
	assert.Equal(t, "FLAT30", app.Code)
	assert.Equal(t, 1, mock.calls)
}

func TestEvaluate_InvalidCode(t *testing.T) {
	mock := &mockValidator{result: ValidationResult{Valid: false}}
	sut := NewEvaluator(mock)

	app := sut.Evaluate(context.Background(), "BOGUS", 200)
	assert.False(t, app.Valid)
	assert.Equal(t, 0.0, app.DiscountAmount)
	assert.Equal(t, "invalid promo code", app.Message)
}

func TestEvaluate_TransportFailureIsInvalidNotError(t *testing.T) {
	mock := &mockValidator{err: errors.New("connection refused")}
	sut := NewEvaluator(mock)

	app := sut.Evaluate(context.Background(), "FLAT30", 200)
	assert.False(t, app.Valid)
	assert.Equal(t, "invalid promo code", app.Message)
}

func TestEvaluate_DiscountClampedToSubtotal(t *testing.T) {
	mock := &mockValidator{
		result: ValidationResult{Valid: true, DiscountAmount: 500},
	}
	sut := NewEvaluator(mock)

	app := sut.Evaluate(context.Background(), "MEGA", 200)
	assert.True(t, app.Valid)
	assert.Equal(t, 200.0, app.DiscountAmount)
}

func TestEvaluate_NegativeDiscountClampedToZero(t *testing.T) {
	mock := &mockValidator{
		result: ValidationResult{Valid: true, DiscountAmount: -10},
	}
	sut := NewEvaluator(mock)

	app := sut.Evaluate(context.Background(), "WEIRD", 200)
	assert.True(t, app.Valid)
	assert.Equal(t, 0.0, app.DiscountAmount)
}

func TestEvaluate_CodeIsTrimmedBeforeValidation(t *testing.T) {
	mock := &mockValidator{result: ValidationResult{Valid: true, DiscountAmount: 10}}
	sut := NewEvaluator(mock)

	app := sut.Evaluate(context.Background(), "  FLAT30  ", 100)
	assert.Equal(t, "FLAT30", app.Code)
}

func TestHTTPValidator_Validate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/promo/validate", r.URL.Path)
		require.Equal(t, "FLAT30", r.URL.Query().Get("code"))
		require.Equal(t, "200", r.URL.Query().Get("originalPrice"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid":true,"discount_amount":30,"message":"flat 30 off"}`))
	}))
	defer srv.Close()

	sut := NewHTTPValidator(srv.URL, srv.Client())
	result, err := sut.Validate(context.Background(), "FLAT30", 200)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 30.0, result.DiscountAmount)
}

func TestHTTPValidator_NotFoundMeansInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sut := NewHTTPValidator(srv.URL, srv.Client())
	result, err := sut.Validate(context.Background(), "EXPIRED", 100)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestHTTPValidator_ServerErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sut := NewHTTPValidator(srv.URL, srv.Client())
	_, err := sut.Validate(context.Background(), "FLAT30", 100)
	require.ErrorContains(t, err, "promo service status 500")
}
