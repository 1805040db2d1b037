package inspect

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Inspecter is implemented by values that render themselves,
// such as sets. depth counts down towards zero as nesting
// increases.
type Inspecter interface {
	Inspect(depth int, cfg Config) string
}

// printer formats values without a dedicated rendering.
var printer = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          false,
	SortKeys:                true,
}

// Value renders v using cfg.
func Value(v any, cfg Config) string {
	return At(v, cfg.Depth, cfg)
}

// At renders v with depth levels of nesting remaining.
func At(v any, depth int, cfg Config) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case Inspecter:
		return val.Inspect(depth, cfg)
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "nil"
		}
		if depth <= 0 {
			return "[...]"
		}
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = At(rv.Index(i).Interface(), depth-1, cfg)
		}
		return Collection("[", "]", items, depth, cfg)
	case reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		if depth <= 0 {
			return "{...}"
		}
		entries := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, fmt.Sprintf(
				"%s: %s",
				mapKey(iter.Key().Interface(), cfg),
				At(iter.Value().Interface(), depth-1, cfg),
			))
		}
		sort.Strings(entries)
		return Collection("{", "}", entries, depth, cfg)
	case reflect.Func:
		return rv.Type().String()
	}

	return printer.Sprintf("%+v", v)
}

func mapKey(k any, cfg Config) string {
	if s, ok := k.(string); ok && isIdent(s) {
		return s
	}
	return At(k, 1, cfg)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Collection lays out already-rendered items between prefix and
// suffix. Items stay on one line unless one of them spans
// several lines or the combined width exceeds what remains of
// the preferred width at this depth.
func Collection(
	prefix, suffix string,
	items []string,
	depth int,
	cfg Config,
) string {
	if len(items) == 0 {
		return prefix + suffix
	}

	if depth == 1 && len(items) > 10 {
		return prefix + "..." + suffix
	}

	currentDepth := cfg.Depth - min(cfg.Depth, depth)
	maxLineLength := (cfg.PreferredWidth - 20) -
		currentDepth*cfg.IndentWidth - 2

	width := 0
	multipleLines := false
	for _, item := range items {
		if strings.Contains(item, "\n") {
			multipleLines = true
			break
		}
		width += utf8.RuneCountInString(item)
		if width > maxLineLength {
			multipleLines = true
			break
		}
	}

	delimited := make([]string, len(items))
	for i, item := range items {
		delimited[i] = item
		if i < len(items)-1 {
			delimited[i] += ","
		}
	}

	if !multipleLines {
		return prefix + " " + strings.Join(delimited, " ") + " " + suffix
	}

	out := NewOutput(cfg)
	out.Line(prefix)
	out.IndentLines()
	for _, item := range delimited {
		out.Line(item)
	}
	out.OutdentLines()
	out.Line(suffix)
	return out.String()
}
