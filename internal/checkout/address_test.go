package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopkart/storefront/internal/domain"
)

func TestValidateAddress_Valid(t *testing.T) {
	errs := ValidateAddress(domain.Address{
		Line1:   "12 MG Road",
		State:   "Karnataka",
		Pincode: "560001",
	})
	assert.Empty(t, errs)
}

func TestValidateAddress_AllFieldsReportedTogether(t *testing.T) {
	errs := ValidateAddress(domain.Address{})
	assert.Len(t, errs, 3)
	assert.Equal(t, "address is required", errs["address_line1"])
	assert.Equal(t, "state is required", errs["state"])
	assert.Equal(t, "pincode is required", errs["pincode"])
}

func TestValidateAddress_Pincode(t *testing.T) {
	cases := map[string]string{
		"12345":   "pincode must be 6 digits",
		"1234567": "pincode must be 6 digits",
		"56000a":  "pincode must be 6 digits",
		"      ":  "pincode is required",
	}

	for pin, want := range cases {
		errs := ValidateAddress(domain.Address{Line1: "x", State: "y", Pincode: pin})
		assert.Equal(t, want, errs["pincode"], "pincode %q", pin)
	}
}

func TestValidateAddress_WhitespaceOnlyFields(t *testing.T) {
	errs := ValidateAddress(domain.Address{Line1: "   ", State: "\t", Pincode: "560001"})
	assert.Len(t, errs, 2)
}
