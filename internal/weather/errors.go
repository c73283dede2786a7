package weather

import (
	"fmt"
	"strings"
)

// CityNotFoundError means no geocoding variant resolved the query.
type CityNotFoundError struct {
	City string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("地名「%s」を解決できませんでした", e.City)
}

// AmbiguousCityError carries the ranked candidate names for a query that
// matched more than one place.
type AmbiguousCityError struct {
	City       string
	Candidates []string
}

func (e *AmbiguousCityError) Error() string {
	return fmt.Sprintf("地名「%s」に複数の候補が見つかりました。候補: %s",
		e.City, strings.Join(e.Candidates, "、"))
}

// APIError wraps an upstream transport failure (after retry exhaustion) or a
// structurally invalid upstream payload. Message is the stable user-facing
// text; the underlying cause is kept for logging only.
type APIError struct {
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}
