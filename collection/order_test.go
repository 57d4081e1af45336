package collection

import (
	"errors"
	"testing"
	"time"

	"github.com/ancientlore/chronicle/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dated(url string, year, month, day int) *document.Document {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &document.Document{URL: url, Date: t, Timestamp: t.UnixMilli()}
}

func urls(docs []*document.Document) []string {
	r := make([]string, len(docs))
	for i, d := range docs {
		r[i] = d.URL
	}
	return r
}

func TestOrder_DescendingTimestamp(t *testing.T) {
	docs := []*document.Document{
		dated("/b", 2020, 1, 1),
		dated("/c", 2021, 1, 1),
		dated("/a", 2019, 1, 1),
	}

	r, err := Order(docs, []string{"-timestamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/c", "/b", "/a"}, urls(r))
}

func TestOrder_IsStable(t *testing.T) {
	docs := []*document.Document{
		dated("/first", 2020, 1, 1),
		dated("/newer", 2021, 1, 1),
		dated("/second", 2020, 1, 1),
		dated("/third", 2020, 1, 1),
	}

	r, err := Order(docs, []string{"-timestamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/newer", "/first", "/second", "/third"}, urls(r))
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	docs := []*document.Document{
		dated("/a", 2019, 1, 1),
		dated("/b", 2020, 1, 1),
	}

	_, err := Order(docs, []string{"-timestamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, urls(docs))
}

func TestOrder_MultiKey(t *testing.T) {
	docs := []*document.Document{
		{URL: "/x", Lang: "ru", Title: "b"},
		{URL: "/y", Lang: "en", Title: "b"},
		{URL: "/z", Lang: "en", Title: "a"},
		{URL: "/w", Lang: "ru", Title: "a"},
	}

	r, err := Order(docs, []string{"lang", "-title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/y", "/z", "/x", "/w"}, urls(r))
}

func TestOrder_MissingValueIsLowest(t *testing.T) {
	docs := []*document.Document{
		{URL: "/undated"},
		dated("/old", 2019, 1, 1),
		dated("/new", 2021, 1, 1),
	}

	asc, err := Order(docs, []string{"timestamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/undated", "/old", "/new"}, urls(asc))

	desc, err := Order(docs, []string{"-timestamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/new", "/old", "/undated"}, urls(desc))
}

func TestOrder_ExtraFields(t *testing.T) {
	docs := []*document.Document{
		{URL: "/a", Fields: map[string]any{"weight": 3}},
		{URL: "/b", Fields: map[string]any{"weight": 1.5}},
		{URL: "/c", Fields: map[string]any{"weight": int64(2)}},
	}

	r, err := Order(docs, []string{"weight"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/b", "/c", "/a"}, urls(r))
}

func TestOrder_InvalidKey(t *testing.T) {
	for _, key := range []string{"", "-", " "} {
		_, err := Order(nil, []string{key})
		assert.True(t, errors.Is(err, ErrInvalidKey), "key %q", key)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"strings", "a", "b", -1},
		{"numbers mixed types", 2, 2.0, 0},
		{"bools", true, false, 1},
		{"times", time.Unix(10, 0), time.Unix(5, 0), 1},
		{"number before string", 10, "1", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareValues(tt.a, tt.b))
		})
	}
}
