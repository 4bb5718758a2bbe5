package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/pkg/apperror"
)

// PathID parses a positive integer path variable
func PathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput("invalid %s", name)
	}
	return uint(id), nil
}

// QueryInt returns an integer query parameter or def when it is absent or malformed
func QueryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// QueryBool returns nil when the parameter is absent
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.InvalidInput("invalid %s", name)
	}
	return &v, nil
}

// QueryUint returns nil when the parameter is absent
func QueryUint(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperror.InvalidInput("invalid %s", name)
	}
	id := uint(v)
	return &id, nil
}

// QueryDate parses YYYY-MM-DD or RFC3339; absent parameters give the zero time
func QueryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return ParseDate(name, raw)
}

// ParseDate accepts YYYY-MM-DD or RFC3339
func ParseDate(name, raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperror.InvalidInput("invalid %s: use YYYY-MM-DD or RFC3339", name)
	}
	return t, nil
}

// QueryDateRange reads from and to. A date-only to covers that whole day, so
// the returned to is exclusive.
func QueryDateRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := QueryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := QueryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(r.URL.Query().Get("to")) == len("2006-01-02") {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}
