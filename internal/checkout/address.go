package checkout

import (
	"regexp"
	"strings"

	"github.com/shopkart/storefront/internal/domain"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// ValidateAddress checks the delivery address locally before submission.
// The three checks are independent: every violated field is reported, not
// just the first.
func ValidateAddress(addr domain.Address) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(addr.Line1) == "" {
		errs["address_line1"] = "address is required"
	}
	if strings.TrimSpace(addr.State) == "" {
		errs["state"] = "state is required"
	}
	switch pin := strings.TrimSpace(addr.Pincode); {
	case pin == "":
		errs["pincode"] = "pincode is required"
	case !pincodePattern.MatchString(pin):
		errs["pincode"] = "pincode must be 6 digits"
	}

	return errs
}
