package probe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

var errUnexpectedEnd = errors.New("unexpected end of JSON input")

// object keeps keys in first-seen order; a repeated key overwrites the
// value but not the position.
type object struct {
	keys   []string
	values map[string]any
}

// PrettyJSON parses raw and serialises the parsed value the way a browser's
// JSON.stringify(value, null, 2) does. String escapes are decoded, numbers
// are printed in their shortest form, and the last duplicate key wins.
// Integer-like keys come first in ascending order, then the rest in
// insertion order.
func PrettyJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return "", endOfInput(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return "", err
		}
		return "", errors.New("invalid character after top-level value")
	}

	var sb strings.Builder
	if err := writeValue(&sb, v, ""); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errUnexpectedEnd
	}
	return err
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &object{values: make(map[string]any)}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("invalid object key %v", kt)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if _, seen := obj.values[key]; !seen {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

func writeValue(sb *strings.Builder, v any, indent string) error {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		writeString(sb, t)
	case json.Number:
		n, err := formatNumber(t)
		if err != nil {
			return err
		}
		sb.WriteString(n)
	case []any:
		if len(t) == 0 {
			sb.WriteString("[]")
			return nil
		}
		inner := indent + "  "
		sb.WriteString("[\n")
		for i, elem := range t {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(inner)
			if err := writeValue(sb, elem, inner); err != nil {
				return err
			}
		}
		sb.WriteString("\n" + indent + "]")
	case *object:
		if len(t.keys) == 0 {
			sb.WriteString("{}")
			return nil
		}
		inner := indent + "  "
		sb.WriteString("{\n")
		for i, key := range propertyOrder(t.keys) {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(inner)
			writeString(sb, key)
			sb.WriteString(": ")
			if err := writeValue(sb, t.values[key], inner); err != nil {
				return err
			}
		}
		sb.WriteString("\n" + indent + "}")
	default:
		return fmt.Errorf("unexpected JSON token %T", v)
	}
	return nil
}

// propertyOrder puts array-index keys first, ascending, as JavaScript
// objects enumerate them.
func propertyOrder(keys []string) []string {
	var indices []uint64
	var named []string
	for _, k := range keys {
		if n, ok := arrayIndex(k); ok {
			indices = append(indices, n)
		} else {
			named = append(named, k)
		}
	}
	if len(indices) == 0 {
		return keys
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	out := make([]string, 0, len(keys))
	for _, n := range indices {
		out = append(out, strconv.FormatUint(n, 10))
	}
	return append(out, named...)
}

func arrayIndex(k string) (uint64, bool) {
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != k {
		return 0, false
	}
	return n, true
}

// formatNumber renders a JSON number as JavaScript's Number#toString does.
// Values beyond float64 range parse to Infinity, which serialises as null.
func formatNumber(n json.Number) (string, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if math.IsInf(f, 0) {
		return "null", nil
	}
	if err != nil {
		return "", err
	}
	if f == 0 {
		return "0", nil
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mant, ".", "", 1)
	e, err := strconv.Atoi(exp)
	if err != nil {
		return "", err
	}

	k, pos := len(digits), e+1
	switch {
	case k <= pos && pos <= 21:
		return sign + digits + strings.Repeat("0", pos-k), nil
	case 0 < pos && pos <= 21:
		return sign + digits[:pos] + "." + digits[pos:], nil
	case -6 < pos && pos <= 0:
		return sign + "0." + strings.Repeat("0", -pos) + digits, nil
	}

	out := sign + digits[:1]
	if k > 1 {
		out += "." + digits[1:]
	}
	if pos-1 >= 0 {
		return out + "e+" + strconv.Itoa(pos-1), nil
	}
	return out + "e-" + strconv.Itoa(1-pos), nil
}

// writeString quotes s with the minimal escaping JSON.stringify applies:
// no HTML escaping, and U+2028/U+2029 are written as-is.
func writeString(sb *strings.Builder, s string) {
	const hex = "0123456789abcdef"
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hex[r>>4])
				sb.WriteByte(hex[r&0xf])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
