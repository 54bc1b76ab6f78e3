package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"salesboard/internal/analytics"
	"salesboard/internal/dataset"
	apierrors "salesboard/internal/errors"
)

var validate = validator.New()

// FilterRequest carries the query parameters shared by every dashboard and
// export endpoint. Dates are inclusive bounds in 2006-01-02 form; repeated
// or comma-separated region/category values are both accepted.
type FilterRequest struct {
	From       string   `validate:"omitempty,datetime=2006-01-02"`
	To         string   `validate:"omitempty,datetime=2006-01-02"`
	Regions    []string `validate:"dive,max=100"`
	Categories []string `validate:"dive,max=100"`
}

// parseFilter extracts and validates the filter query parameters.
// Returns an APIError suitable for the RFC 7807 error handler.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()

	req := FilterRequest{
		From:       strings.TrimSpace(q.Get("from")),
		To:         strings.TrimSpace(q.Get("to")),
		Regions:    splitMulti(q["regions"]),
		Categories: splitMulti(q["categories"]),
	}

	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return analytics.Filter{}, apierrors.ErrValidation(field, "must be a date in YYYY-MM-DD format")
		}
		return analytics.Filter{}, apierrors.InvalidRequestWithError(err)
	}

	f := analytics.Filter{
		Regions:    req.Regions,
		Categories: req.Categories,
	}

	if req.From != "" {
		t, err := time.Parse(dataset.DateFormat, req.From)
		if err != nil {
			return analytics.Filter{}, apierrors.ErrValidation("from", "must be a date in YYYY-MM-DD format")
		}
		f.From = t
	}
	if req.To != "" {
		t, err := time.Parse(dataset.DateFormat, req.To)
		if err != nil {
			return analytics.Filter{}, apierrors.ErrValidation("to", "must be a date in YYYY-MM-DD format")
		}
		f.To = t
	}

	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return analytics.Filter{}, apierrors.ErrValidation("to", "end date must not be before start date")
	}

	return f, nil
}

// splitMulti flattens repeated query params and comma-separated lists into
// one trimmed slice, dropping empties.
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseLimit reads the optional limit query parameter, bounded by max.
// Zero means "use the default".
func parseLimit(r *http.Request, def, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apierrors.ErrValidation("limit", "must be a non-negative integer")
	}
	if limit == 0 {
		return def, nil
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit, nil
}
