// Package collection implements ordering, grouping and pagination over documents.
// None of the functions here modify their input.
package collection

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/ancientlore/chronicle/document"
)

// ErrInvalidKey is returned by Order when a sort key names no field.
var ErrInvalidKey = errors.New("invalid sort key")

// sortKey is a parsed sort directive.
type sortKey struct {
	field string
	desc  bool
}

// parseKeys turns directives like "-timestamp" into sort keys.
func parseKeys(keys []string) ([]sortKey, error) {
	r := make([]sortKey, 0, len(keys))
	for _, k := range keys {
		sk := sortKey{field: k}
		if strings.HasPrefix(k, "-") {
			sk = sortKey{field: k[1:], desc: true}
		}
		if strings.TrimSpace(sk.field) == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, k)
		}
		r = append(r, sk)
	}
	return r, nil
}

// Order returns a copy of docs sorted by keys. Each key is a field name, optionally
// prefixed with "-" for descending order. Earlier keys take priority and the sort
// is stable, so documents that compare equal keep their input order.
//
// A missing field sorts before any present value, so it comes first in ascending
// order and last in descending order.
func Order(docs []*document.Document, keys []string) ([]*document.Document, error) {
	sks, err := parseKeys(keys)
	if err != nil {
		return nil, fmt.Errorf("Order: %w", err)
	}
	r := slices.Clone(docs)
	slices.SortStableFunc(r, func(a, b *document.Document) int {
		for _, k := range sks {
			av, aok := a.Field(k.field)
			bv, bok := b.Field(k.field)
			c := compareField(av, aok, bv, bok)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return r, nil
}

// compareField compares two field values, treating a missing value as the lowest.
func compareField(a any, aok bool, b any, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return compareValues(a, b)
}

// kind ranks used when two values are of unrelated types.
const (
	rankBool = iota
	rankNumber
	rankTime
	rankString
	rankOther
)

// compareValues orders two present values. Numbers compare numerically, strings
// lexicographically, times chronologically and bools as false < true. Values of
// different kinds compare by kind rank.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case rankNumber:
		return cmp.Compare(toFloat(a), toFloat(b))
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func rank(v any) int {
	switch v.(type) {
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	case string:
		return rankString
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rankNumber
	}
	return rankOther
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}
