package scan

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field is one entry of a Record.
type Field struct {
	Name  string
	Value interface{}
}

// Record is an ordered mapping produced when a scan declares subvariables: every
// subvariable holds the same scalar.
type Record []Field

// Literal renders v as a Python literal, the form bound into generated scripts.
func Literal(v interface{}) string {
	switch value := v.(type) {
	case string:
		return quote(value)
	default:
		return format(v)
	}
}

// Str renders v the way Python's str() would: strings stay unquoted, containers
// render their items as literals. It is the form used in directory names.
func Str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return format(v)
}

func format(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case bool:
		if value {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case float64:
		return formatFloat(value)
	case float32:
		return formatFloat(float64(value))
	case Record:
		parts := make([]string, len(value))
		for i, field := range value {
			parts[i] = quote(field.Name) + ": " + Literal(field.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[string]interface{}:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = quote(key) + ": " + Literal(value[key])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []interface{}:
		parts := make([]string, len(value))
		for i, elem := range value {
			parts[i] = Literal(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return quote(fmt.Sprint(value))
	}
}

// formatFloat follows Python's float repr: shortest round-trip digits, a trailing
// ".0" for integral values, exponent notation below 1e-4 and from 1e16.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	scientific := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(scientific[strings.IndexByte(scientific, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return scientific
	}

	decimal := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(decimal, '.') {
		decimal += ".0"
	}
	return decimal
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
