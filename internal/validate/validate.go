package validate

import (
	"regexp"
	"strings"

	"stagepass/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePost  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{1,9}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

func PostalCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePost.MatchString(s)
}

// Qty clamps a requested line quantity into a sane range.
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

// CustomerDetails returns field-level messages for the checkout details
// form. An empty map means the details are acceptable.
func CustomerDetails(d *domain.CustomerDetails) map[string]string {
	errs := map[string]string{}

	if name, ok := Name(d.FullName); !ok {
		errs["fullName"] = "name is required (max 80 characters)"
	} else {
		d.FullName = name
	}
	if email, ok := Email(d.Email); !ok {
		errs["email"] = "a valid email address is required"
	} else {
		d.Email = email
	}

	if strings.TrimSpace(d.Address.Line1) == "" {
		errs["address.line1"] = "address line 1 is required"
	}
	if strings.TrimSpace(d.Address.City) == "" {
		errs["address.city"] = "city is required"
	}
	if strings.TrimSpace(d.Address.State) == "" {
		errs["address.state"] = "state is required"
	}
	if pc, ok := PostalCode(d.Address.PostalCode); !ok {
		errs["address.postalCode"] = "a valid postal code is required"
	} else {
		d.Address.PostalCode = pc
	}
	if strings.TrimSpace(d.Address.Country) == "" {
		errs["address.country"] = "country is required"
	}

	return errs
}
