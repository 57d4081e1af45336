package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_CanonicalPresence(t *testing.T) {
	d := &Document{URL: "/foo", Lang: "en"}

	v, ok := d.Field(FieldURL)
	require.True(t, ok)
	assert.Equal(t, "/foo", v)

	_, ok = d.Field(FieldTitle)
	assert.False(t, ok, "empty title is missing")

	_, ok = d.Field(FieldDate)
	assert.False(t, ok, "zero date is missing")

	_, ok = d.Field(FieldTimestamp)
	assert.False(t, ok, "timestamp without date is missing")

	_, ok = d.Field(FieldTags)
	assert.False(t, ok, "nil tags are missing")

	v, ok = d.Field(FieldTranslation)
	require.True(t, ok)
	assert.Equal(t, false, v)
}

func TestField_DateAndTimestamp(t *testing.T) {
	date := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	d := &Document{Date: date, Timestamp: date.UnixMilli()}

	v, ok := d.Field(FieldDate)
	require.True(t, ok)
	assert.Equal(t, date, v)

	v, ok = d.Field(FieldTimestamp)
	require.True(t, ok)
	assert.Equal(t, date.UnixMilli(), v)
}

func TestField_FallsBackToFields(t *testing.T) {
	d := &Document{Fields: map[string]any{"author": "Ann", "draft": nil}}

	v, ok := d.Field("author")
	require.True(t, ok)
	assert.Equal(t, "Ann", v)

	_, ok = d.Field("draft")
	assert.False(t, ok, "nil values count as missing")

	_, ok = d.Field("nope")
	assert.False(t, ok)
}

func TestWith_DoesNotMutateOriginal(t *testing.T) {
	orig := &Document{URL: "/a", Fields: map[string]any{"x": 1}}

	c := orig.With(FieldTranslation, true).With("y", 2)

	assert.True(t, c.Translation)
	assert.Equal(t, 2, c.Fields["y"])
	assert.False(t, orig.Translation)
	assert.NotContains(t, orig.Fields, "y")
	assert.Equal(t, "/a", c.URL)
}

func TestWith_TypeMismatchGoesToFields(t *testing.T) {
	d := (&Document{}).With(FieldLang, 42)

	assert.Empty(t, d.Lang)
	assert.Equal(t, 42, d.Fields[FieldLang])
}

func TestGroups_KeepsFirstSeenOrder(t *testing.T) {
	a, b, c := &Document{URL: "/a"}, &Document{URL: "/b"}, &Document{URL: "/c"}
	g := NewGroups()
	g.Add("z", a)
	g.Add("m", b)
	g.Add("z", c)

	assert.Equal(t, []string{"z", "m"}, g.Keys())
	assert.Equal(t, []*Document{a, c}, g.Get("z"))
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has("m"))
	assert.Nil(t, g.Get("none"))
}

func TestGroups_NilIsEmpty(t *testing.T) {
	var g *Groups

	assert.Equal(t, 0, g.Len())
	assert.Nil(t, g.Keys())
	assert.Nil(t, g.Get("x"))
	assert.False(t, g.Has("x"))
}

func TestIsVirtual(t *testing.T) {
	assert.False(t, (&Document{URL: "/post"}).IsVirtual())
	assert.True(t, (&Document{Documents: []*Document{}}).IsVirtual())
	assert.True(t, (&Document{PostsByYear: NewGroups()}).IsVirtual())
}
