package services

import (
	"strconv"
	"strings"
	"time"

	"filmart-backend-go/internal/store"
)

// Query string flags are "true" or anything else; an absent flag adds no
// condition.
func flagCond(field, raw string) []store.Cond {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return []store.Cond{store.Eq(field, raw == "true")}
}

func exactCond(field, raw string) []store.Cond {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return []store.Cond{store.Eq(field, raw)}
}

func intCond(field, raw string) ([]store.Cond, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, ErrBadRequest("Invalid " + field)
	}
	return []store.Cond{store.Eq(field, n)}, nil
}

// dayCond matches one calendar day (UTC): [start, start+24h).
func dayCond(field, raw string) ([]store.Cond, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, ErrBadRequest("Invalid " + field)
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return store.Between(field, start, start.AddDate(0, 0, 1)), nil
}

// searchConds matches term case-insensitively in any of fields.
func searchConds(term string, fields ...string) []store.Cond {
	term = CleanSearchTerm(term)
	if term == "" {
		return nil
	}
	conds := make([]store.Cond, 0, len(fields))
	for _, field := range fields {
		conds = append(conds, store.Contains(field, term))
	}
	return conds
}

// ErrorMessage is the client-facing text of err.
func ErrorMessage(err error) string {
	if serr, ok := AsServiceError(err); ok {
		return serr.Message
	}
	return "Server Error"
}
