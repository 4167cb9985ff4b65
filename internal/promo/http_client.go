package promo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// HTTPValidator calls the promo rule service over its REST API:
// POST {base}/promo/validate?code=...&originalPrice=...
type HTTPValidator struct {
	baseURL string
	client  *http.Client
}

func NewHTTPValidator(baseURL string, client *http.Client) *HTTPValidator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPValidator{baseURL: baseURL, client: client}
}

func (v *HTTPValidator) Validate(ctx context.Context, code string, subtotal float64) (ValidationResult, error) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("originalPrice", strconv.FormatFloat(subtotal, 'f', -1, 64))

	endpoint := fmt.Sprintf("%s/promo/validate?%s", v.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("build validate request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("promo service call: %w", err)
	}
	defer resp.Body.Close()

	// The rule service answers 404 for unknown or expired codes. That is
	// a definitive "not valid", not a transport failure.
	if resp.StatusCode == http.StatusNotFound {
		return ValidationResult{Valid: false, Message: "invalid promo code"}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return ValidationResult{}, fmt.Errorf("promo service status %d", resp.StatusCode)
	}

	var result ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ValidationResult{}, fmt.Errorf("decode validate response: %w", err)
	}
	return result, nil
}
