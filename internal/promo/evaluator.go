package promo

import (
	"context"
	"log"
	"strings"

	"github.com/shopkart/storefront/internal/domain"
)

// ValidationResult is the external rule service's answer for a code.
type ValidationResult struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	Message        string  `json:"message"`
}

// Validator is the external promo rule service. Consumers define this
// interface, not the transport implementation.
type Validator interface {
	Validate(ctx context.Context, code string, subtotal float64) (ValidationResult, error)
}

// Evaluator validates promo codes against the external rule service and
// produces the application for a given subtotal. Failures never escape
// this boundary: any transport or validation error becomes an invalid
// application with a generic message.
type Evaluator struct {
	validator Validator
}

func NewEvaluator(v Validator) *Evaluator {
	return &Evaluator{validator: v}
}

// Evaluate checks the code against the subtotal. A blank code short-circuits
// without calling the external service. A valid discount is clamped to
// [0, subtotal] so the final total can never go negative.
func (e *Evaluator) Evaluate(ctx context.Context, code string, subtotal float64) domain.PromoApplication {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return domain.PromoApplication{
			Code:    code,
			Valid:   false,
			Message: "promo code required",
		}
	}

	result, err := e.validator.Validate(ctx, trimmed, subtotal)
	if err != nil {
		log.Printf("promo validation failed for %q: %v", trimmed, err)
		return invalidApplication(trimmed)
	}
	if !result.Valid {
		return domain.PromoApplication{
			Code:    trimmed,
			Valid:   false,
			Message: messageOr(result.Message, "invalid promo code"),
		}
	}

	discount := result.DiscountAmount
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	return domain.PromoApplication{
		Code:           trimmed,
		DiscountAmount: discount,
		Valid:          true,
		Message:        messageOr(result.Message, "promo applied"),
	}
}

func invalidApplication(code string) domain.PromoApplication {
	return domain.PromoApplication{
		Code:    code,
		Valid:   false,
		Message: "invalid promo code",
	}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
