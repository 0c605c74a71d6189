package connectors

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// envelopes are the paths a provider may nest its payload under, most
// specific first.
var envelopes = []string{"data.user", "data"}

// Fields reads loosely-shaped provider JSON. Each field is looked up by its
// snake_case name first, then by its camelCase form.
type Fields struct {
	obj gjson.Result
}

// ParseFields selects the payload envelope of a JSON body. It returns false
// when the body is not a JSON object.
func ParseFields(body []byte) (Fields, bool) {
	if !gjson.ValidBytes(body) {
		return Fields{}, false
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Fields{}, false
	}
	for _, path := range envelopes {
		if env := root.Get(path); env.IsObject() {
			return Fields{obj: env}, true
		}
	}
	return Fields{obj: root}, true
}

// Lookup returns the first present, non-null value for name.
func (f Fields) Lookup(name string) (gjson.Result, bool) {
	for _, key := range []string{name, CamelCase(name)} {
		v := f.obj.Get(gjson.Escape(key))
		if v.Exists() && v.Type != gjson.Null {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// String returns the trimmed string value of name, or "".
func (f Fields) String(name string) string {
	v, ok := f.Lookup(name)
	if !ok || v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}

// Int returns the integer value of name, or nil when absent or not numeric.
// Numeric strings are accepted.
func (f Fields) Int(name string) *int64 {
	v, ok := f.Lookup(name)
	if !ok {
		return nil
	}
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Num
	case gjson.String:
		p := gjson.Parse(strings.TrimSpace(v.Str))
		if p.Type != gjson.Number {
			return nil
		}
		n = p.Num
	default:
		return nil
	}
	if math.IsNaN(n) || math.Abs(n) >= float64(math.MaxInt64) {
		return nil
	}
	i := int64(math.Round(n))
	return &i
}

// Any reports whether at least one of names is present.
func (f Fields) Any(names ...string) bool {
	for _, name := range names {
		if _, ok := f.Lookup(name); ok {
			return true
		}
	}
	return false
}

// CamelCase converts a snake_case key to camelCase.
func CamelCase(snake string) string {
	parts := strings.Split(snake, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
