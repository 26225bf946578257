package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Festival Opens 2025!!":     "festival-opens-2025",
		"  Café   Crème  ":          "cafe-creme",
		"Behind -- the -- Scenes":   "behind-the-scenes",
		"Short_Film & Docs: A+B":    "short_film-docs-ab",
		"---":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestTagsSplitAndDedupe(t *testing.T) {
	assert.Equal(t, []string{"night", "red carpet"}, SplitTags(" night, red carpet ,,night"))
	assert.Equal(t, []string{}, SplitTags("  "))
}

func TestPlainTextAndRichText(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", PlainText("<i>Tom &amp; Jerry</i>"))
	assert.Equal(t, `<a href="https://example.com" rel="nofollow">x</a>`, SanitizeRichText(`<a href="https://example.com" onclick="steal()">x</a>`))
}

func TestFlexibleInputAcceptsFormStrings(t *testing.T) {
	var in struct {
		Year     *Int  `json:"year"`
		Featured *Bool `json:"featured"`
		Date     *Date `json:"date"`
		Tags     *Tags `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"year":"2024","featured":"true","date":"2025-11-20","tags":"a, b"}`), &in))
	assert.Equal(t, NewInt(2024), *in.Year)
	assert.True(t, bool(*in.Featured))
	assert.Equal(t, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), in.Date.Time())
	assert.Equal(t, Tags{"a", "b"}, *in.Tags)

	require.NoError(t, json.Unmarshal([]byte(`{"year":1999,"featured":false,"date":"2025-11-20T18:30:00Z","tags":["x","x","y"]}`), &in))
	assert.Equal(t, NewInt(1999), *in.Year)
	assert.False(t, bool(*in.Featured))
	assert.Equal(t, 18, in.Date.Time().Hour())
	assert.Equal(t, Tags{"x", "y"}, *in.Tags)

	assert.Error(t, json.Unmarshal([]byte(`{"featured":"maybe"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"year":"soon"}`), &in))
}

func TestBlankIntKeepsDefault(t *testing.T) {
	var in struct {
		Year *Int `json:"year"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"year":""}`), &in))
	year := 2025
	setInt(&year, in.Year)
	assert.Equal(t, 2025, year)

	require.NoError(t, json.Unmarshal([]byte(`{"year":"0"}`), &in))
	setInt(&year, in.Year)
	assert.Equal(t, 0, year)
}

func TestAuthorInputFromFormText(t *testing.T) {
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"author":"{\"name\":\"Desk\"}"}`), &in))
	require.NotNil(t, in.Author)
	require.NotNil(t, in.Author.Name)
	assert.Equal(t, "Desk", *in.Author.Name)
	assert.Nil(t, in.Author.Avatar)
}

func TestValidateReportsFieldMessages(t *testing.T) {
	err := Validate(RegisterInput{Name: "", Email: "nope", Password: "123"})
	require.Error(t, err)
	serr, ok := AsServiceError(err)
	require.True(t, ok)
	fields := map[string]string{}
	for _, f := range serr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Please provide name", fields["name"])
	assert.Equal(t, "Please provide a valid email", fields["email"])
	assert.Contains(t, fields, "password")
	assert.Equal(t, "Please provide name", serr.Message)
}
