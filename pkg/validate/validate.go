// Package validate holds the pure input validators attached to flow steps.
//
// A validator is total over its input kind: it never panics and never
// touches session state. Rejections are ordinary values (a *Rejection
// error) the engine surfaces to the caller while the flow stays on the
// current step.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Rejection is the user-correctable branch of a validation outcome.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Reject builds a Rejection with a formatted reason.
func Reject(format string, args ...any) *Rejection {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is (or wraps) a Rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// Func validates raw input and returns the normalized value on acceptance.
// Rejections come back as a *Rejection error; any other error is a
// programming defect, not a user mistake.
type Func func(raw string) (any, error)

// emailShape is the standard local-part "@" domain-with-dot check.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FreeText accepts any text whose trimmed length is at least min runes.
func FreeText(min int) Func {
	if min <= 0 {
		min = 1
	}
	return func(raw string) (any, error) {
		trimmed := strings.TrimSpace(raw)
		if err := validation.Validate(trimmed,
			validation.Required,
			validation.RuneLength(min, 0),
		); err != nil {
			return nil, Reject("please enter at least %d characters", min)
		}
		return trimmed, nil
	}
}

// Email accepts addresses shaped local@domain.tld and normalizes to lowercase.
func Email() Func {
	return func(raw string) (any, error) {
		trimmed := strings.TrimSpace(raw)
		if !emailShape.MatchString(trimmed) {
			return nil, Reject("that doesn't look like a valid e-mail address")
		}
		return strings.ToLower(trimmed), nil
	}
}

// Year accepts a model year between 1990 and next year (relative to now).
func Year(now func() time.Time) Func {
	if now == nil {
		now = time.Now
	}
	return func(raw string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, Reject("please enter a four-digit year")
		}
		max := now().Year() + 1
		if err := validation.Validate(n, validation.Min(1990), validation.Max(max)); err != nil {
			return nil, Reject("year must be between 1990 and %d", max)
		}
		return n, nil
	}
}

// Age accepts an integer age within [min, max].
// Zero bounds fall back to the [0, 120] default.
func Age(min, max int) Func {
	if max == 0 {
		max = 120
	}
	return func(raw string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, Reject("please enter your age in numbers")
		}
		if err := validation.Validate(n, validation.Min(min), validation.Max(max)); err != nil {
			return nil, Reject("age must be between %d and %d", min, max)
		}
		return n, nil
	}
}

// CityRegion accepts a "city, region" pair, both parts non-empty after
// trimming. The normalized value is a map ready to merge into the
// location topic.
func CityRegion() Func {
	return func(raw string) (any, error) {
		city, region, ok := strings.Cut(raw, ",")
		city = strings.TrimSpace(city)
		region = strings.TrimSpace(region)
		if !ok || city == "" || region == "" {
			return nil, Reject(`please enter your location as "city, region"`)
		}
		return map[string]any{"city": city, "region": region}, nil
	}
}
