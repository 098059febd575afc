package scan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		literal string
		str     string
	}{
		{name: "nil", value: nil, literal: "None", str: "None"},
		{name: "true", value: true, literal: "True", str: "True"},
		{name: "false", value: false, literal: "False", str: "False"},
		{name: "int", value: 42, literal: "42", str: "42"},
		{name: "negative int64", value: int64(-7), literal: "-7", str: "-7"},
		{name: "uint64", value: uint64(18446744073709551615), literal: "18446744073709551615", str: "18446744073709551615"},
		{name: "integral float", value: 1.0, literal: "1.0", str: "1.0"},
		{name: "float", value: 62.315, literal: "62.315", str: "62.315"},
		{name: "negative zero", value: math.Copysign(0, -1), literal: "-0.0", str: "-0.0"},
		{name: "small float", value: 1e-05, literal: "1e-05", str: "1e-05"},
		{name: "small mantissa", value: 2.5e-07, literal: "2.5e-07", str: "2.5e-07"},
		{name: "threshold float", value: 0.0001, literal: "0.0001", str: "0.0001"},
		{name: "large float", value: 1e16, literal: "1e+16", str: "1e+16"},
		{name: "below large threshold", value: 1e15, literal: "1000000000000000.0", str: "1000000000000000.0"},
		{name: "nan", value: math.NaN(), literal: "nan", str: "nan"},
		{name: "inf", value: math.Inf(-1), literal: "-inf", str: "-inf"},
		{name: "string", value: "path/to/01", literal: "'path/to/01'", str: "path/to/01"},
		{name: "quoted string", value: "it's\n", literal: `'it\'s\n'`, str: "it's\n"},
		{name: "list", value: []interface{}{1, "a", 2.0}, literal: "[1, 'a', 2.0]", str: "[1, 'a', 2.0]"},
		{
			name:    "record",
			value:   Record{{Name: "b1", Value: 0.5}, {Name: "b2", Value: 0.5}},
			literal: "{'b1': 0.5, 'b2': 0.5}",
			str:     "{'b1': 0.5, 'b2': 0.5}",
		},
		{
			name:    "map sorted by key",
			value:   map[string]interface{}{"z": 1, "a": "x"},
			literal: "{'a': 'x', 'z': 1}",
			str:     "{'a': 'x', 'z': 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.literal, Literal(tt.value))
			assert.Equal(t, tt.str, Str(tt.value))
		})
	}
}
