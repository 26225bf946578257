package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Request values arrive either as JSON or as multipart/urlencoded form
// strings. The types below accept both representations.

// Int accepts 3 or "3". A blank form value leaves the field unset.
type Int struct {
	value int
	set   bool
}

func NewInt(n int) Int { return Int{value: n, set: true} }

func (v Int) Value() (int, bool) { return v.value, v.set }

func (v *Int) UnmarshalJSON(data []byte) error {
	raw := unquote(data)
	if raw == "" || raw == "null" {
		*v = Int{}
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("invalid number %q", raw)
		}
		n = int(f)
	}
	*v = NewInt(n)
	return nil
}

// Bool accepts true or "true". An empty string is false.
type Bool bool

func (v *Bool) UnmarshalJSON(data []byte) error {
	raw := strings.ToLower(unquote(data))
	switch raw {
	case "true", "1", "on":
		*v = true
	case "false", "0", "off", "":
		*v = false
	default:
		return fmt.Errorf("invalid boolean %q", raw)
	}
	return nil
}

// Date accepts RFC 3339 timestamps, "2006-01-02T15:04" and plain dates.
type Date time.Time

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func (v *Date) UnmarshalJSON(data []byte) error {
	t, err := ParseDate(unquote(data))
	if err != nil {
		return err
	}
	*v = Date(t)
	return nil
}

func (v Date) Time() time.Time { return time.Time(v) }

// Tags accepts ["a","b"], "a, b", or a form field holding a JSON array.
type Tags []string

func (v *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if raw := unquote(data); strings.HasPrefix(raw, "[") {
		data = []byte(raw)
	}
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = CleanTags(items)
		return nil
	}
	*v = SplitTags(unquote(data))
	return nil
}

func unquote(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(string(data))
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setInt(dst *int, src *Int) {
	if src == nil {
		return
	}
	if n, ok := src.Value(); ok {
		*dst = n
	}
}

func setBool(dst *bool, src *Bool) {
	if src != nil {
		*dst = bool(*src)
	}
}

func setTime(dst *time.Time, src *Date) {
	if src != nil {
		*dst = src.Time()
	}
}

func setTags(dst *[]string, src *Tags) {
	if src != nil {
		*dst = []string(*src)
	}
}
