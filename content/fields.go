package content

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/ancientlore/chronicle/document"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidFieldParser is returned when a field parser cannot be used.
var ErrInvalidFieldParser = errors.New("invalid field parser")

// Kind is the type of value a field holds once parsed.
type Kind int

// Field kinds.
const (
	KindAny     Kind = iota // any value, stored in Fields
	KindString              // string
	KindStrings             // []string
	KindTime                // time.Time
	KindInt                 // int64
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindStrings:
		return "strings"
	case KindTime:
		return "time"
	case KindInt:
		return "int"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FieldParser derives the value of one field. Parse receives the raw value of the
// field, nil when absent, and the raw attributes of the whole file. A nil result
// leaves the field unset.
type FieldParser struct {
	Kind  Kind
	Parse func(raw any, attrs map[string]any) (any, error)
}

// canonicalKinds lists the kind required of each field the loader stores in a typed
// Document field.
var canonicalKinds = map[string]Kind{
	document.FieldSourcePath: KindString,
	document.FieldURL:        KindString,
	document.FieldLang:       KindString,
	document.FieldLayout:     KindString,
	document.FieldTitle:      KindString,
	document.FieldDate:       KindTime,
	document.FieldTimestamp:  KindInt,
	document.FieldTags:       KindStrings,
}

// ValidateFieldParsers checks that every parser has a Parse function and that
// parsers of canonical fields produce the kind that field holds.
func ValidateFieldParsers(parsers map[string]FieldParser) error {
	for _, name := range sortedKeys(parsers) {
		p := parsers[name]
		if p.Parse == nil {
			return fmt.Errorf("%w: %q has no Parse function", ErrInvalidFieldParser, name)
		}
		if want, ok := canonicalKinds[name]; ok && p.Kind != want {
			return fmt.Errorf("%w: %q must be of kind %s, not %s", ErrInvalidFieldParser, name, want, p.Kind)
		}
	}
	return nil
}

// DefaultFieldParsers returns parsers that normalize the publish date, derive the
// timestamp from it and strip a leading language segment from URLs.
func DefaultFieldParsers(languages []string) map[string]FieldParser {
	return map[string]FieldParser{
		document.FieldDate: {
			Kind: KindTime,
			Parse: func(raw any, _ map[string]any) (any, error) {
				if raw == nil {
					return nil, nil
				}
				return toTime(raw)
			},
		},
		document.FieldTimestamp: {
			Kind: KindInt,
			Parse: func(raw any, attrs map[string]any) (any, error) {
				if raw != nil {
					return toInt(raw)
				}
				d, ok := attrs[document.FieldDate]
				if !ok || d == nil {
					return nil, nil
				}
				t, err := toTime(d)
				if err != nil {
					return nil, err
				}
				return t.UnixMilli(), nil
			},
		},
		document.FieldURL: {
			Kind: KindString,
			Parse: func(raw any, _ map[string]any) (any, error) {
				if raw == nil {
					return nil, nil
				}
				return StripLanguage(fmt.Sprint(raw), languages), nil
			},
		},
	}
}

// StripLanguage removes a leading path segment naming one of languages from url.
// Only a whole segment matches, so "/english/x" is left alone for language "en".
func StripLanguage(url string, languages []string) string {
	rest := strings.TrimPrefix(url, "/")
	seg, tail, _ := strings.Cut(rest, "/")
	if !slices.Contains(languages, seg) {
		return url
	}
	return "/" + tail
}

// coerce converts a raw front matter value to the Go type of kind.
func coerce(kind Kind, v any) (any, error) {
	switch kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case KindStrings:
		return toStrings(v), nil
	case KindTime:
		return toTime(v)
	case KindInt:
		return toInt(v)
	}
	return v, nil
}

// dateLayouts are tried in order when a date is given as a string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case toml.LocalDate:
		return t.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return t.AsTime(time.UTC), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, nil
			}
		}
		return time.Time{}, fmt.Errorf("toTime: cannot parse %q as a date", t)
	}
	return time.Time{}, fmt.Errorf("toTime: unsupported date type %T", v)
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("toInt: %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("toInt: unsupported number type %T", v)
}

// toStrings accepts a list or a comma separated string and drops blank entries.
func toStrings(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			if e != nil {
				raw = append(raw, fmt.Sprint(e))
			}
		}
	case string:
		raw = strings.Split(t, ",")
	case nil:
	default:
		raw = []string{fmt.Sprint(t)}
	}
	r := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			r = append(r, s)
		}
	}
	return r
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
