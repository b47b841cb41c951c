package httpapi

import (
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// plainText strips markup from a display name and returns it unescaped.
func plainText(p *bluemonday.Policy, s string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}

func plainTextPtr(p *bluemonday.Policy, s *string) *string {
	if s == nil {
		return nil
	}
	out := plainText(p, *s)
	return &out
}
