package validation

import (
	"fmt"
	"net/url"
	"strings"
)

/* ValidateURL reports whether a string is a usable http(s) endpoint URL,
 * the shape expected for the Supabase project URL */
func ValidateURL(urlStr string) bool {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return false
	}

	/* Only http and https endpoints are dialable here */
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	return parsed.Host != ""
}

/* ValidateURLRequired validates an endpoint URL that must be configured */
func ValidateURLRequired(urlStr, fieldName string) error {
	if urlStr == "" {
		return fmt.Errorf("%s must be configured", fieldName)
	}

	if !ValidateURL(urlStr) {
		return fmt.Errorf("%s is not a usable http(s) URL: %q", fieldName, urlStr)
	}

	return nil
}
