package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError lists per-field failures.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// checker collects field failures; the first failure per field wins.
type checker struct {
	fields map[string]string
}

func (c *checker) fail(field, format string, args ...any) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, ok := c.fields[field]; ok {
		return
	}
	c.fields[field] = fmt.Sprintf(format, args...)
}

func (c *checker) length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n < min && min == 1:
		c.fail(field, "is required")
	case n < min:
		c.fail(field, "must be at least %d characters", min)
	case n > max:
		c.fail(field, "must be at most %d characters", max)
	}
}

func (c *checker) oneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.fail(field, "must be one of %s", strings.Join(allowed, ", "))
}

func (c *checker) match(field, value string, re *regexp.Regexp, want string) {
	if !re.MatchString(value) {
		c.fail(field, "must match %s", want)
	}
}

func (c *checker) optionalURL(field, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		c.fail(field, "must be a valid URL")
	}
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}
