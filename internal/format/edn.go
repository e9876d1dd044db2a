package format

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through encoding/json first so json
// tags decide field names; object keys become keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}

	var sb strings.Builder
	e := ednWriter{sb: &sb, pretty: pretty}
	e.value(generic, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednWriter struct {
	sb     *strings.Builder
	pretty bool
}

func (e ednWriter) value(v any, depth int) {
	switch x := v.(type) {
	case nil:
		e.sb.WriteString("nil")
	case bool:
		e.sb.WriteString(strconv.FormatBool(x))
	case string:
		e.sb.WriteString(strconv.Quote(x))
	case float64:
		if x == float64(int64(x)) {
			e.sb.WriteString(strconv.FormatInt(int64(x), 10))
		} else {
			e.sb.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
		}
	case []any:
		parts := make([]func(), 0, len(x))
		for _, it := range x {
			parts = append(parts, func() { e.value(it, depth+1) })
		}
		e.collection('[', ']', parts, depth)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]func(), 0, len(keys))
		for _, k := range keys {
			parts = append(parts, func() {
				e.sb.WriteString(keyword(k))
				e.sb.WriteByte(' ')
				e.value(x[k], depth+1)
			})
		}
		e.collection('{', '}', parts, depth)
	default:
		e.sb.WriteString("nil")
	}
}

func (e ednWriter) collection(open, close byte, parts []func(), depth int) {
	e.sb.WriteByte(open)
	if len(parts) == 0 {
		e.sb.WriteByte(close)
		return
	}
	for i, part := range parts {
		switch {
		case e.pretty:
			e.sb.WriteByte('\n')
			e.sb.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.sb.WriteByte(' ')
		}
		part()
	}
	if e.pretty {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat("  ", depth))
	}
	e.sb.WriteByte(close)
}

// keyword turns a JSON key into an EDN keyword. A leading underscore is kept
// (":_hints"); whitespace becomes dashes.
func keyword(k string) string {
	k = strings.Join(strings.Fields(k), "-")
	if k == "" {
		return `:_`
	}
	return ":" + k
}
