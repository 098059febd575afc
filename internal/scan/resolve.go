// Package scan turns the scan declarations of a generation into concrete parameter
// values and expands them into the cartesian product of combinations.
package scan

import (
	"fmt"
	"math"
	"strings"

	"studyda/internal/config"
	"studyda/pkg/studytypes"
)

// PathPlaceholder is the token path_list replaces with a zero-padded index.
const PathPlaceholder = "____"

// roundingScale rounds linspace and logspace values to 5 decimal places.
const roundingScale = 1e5

// Resolved holds the values of one scanned parameter. Values are bound into the
// rendered scripts; Naming holds, at the same positions, the values used to build
// directory names.
type Resolved struct {
	Parameter string
	Values    []interface{}
	Naming    []interface{}
}

// Len returns the number of values of the scan.
func (r *Resolved) Len() int {
	return len(r.Values)
}

// Resolve produces the ordered values of one scan declared in generation.
func Resolve(generation string, spec config.ScanSpec) (*Resolved, error) {
	if generation == config.BaseGeneration {
		return nil, studytypes.NewConfigurationError("generation %q should not have scans", config.BaseGeneration).
			WithGeneration(generation).WithParameter(spec.Parameter)
	}

	resolved := &Resolved{Parameter: spec.Parameter}

	switch spec.Mode {
	case config.ScanModeLinspace:
		resolved.Values = roundAll(linspace(spec.Range.Start, spec.Range.Stop, spec.Range.Count))
		resolved.Naming = copyValues(resolved.Values)
	case config.ScanModeLogspace:
		exponents := linspace(spec.Range.Start, spec.Range.Stop, spec.Range.Count)
		values := make([]float64, len(exponents))
		for i, exponent := range exponents {
			values[i] = math.Pow(10, exponent)
		}
		resolved.Values = roundAll(values)
		resolved.Naming = copyValues(resolved.Values)
	case config.ScanModePathList:
		for n := spec.PathList.Start; n < spec.PathList.End; n++ {
			index := fmt.Sprintf("%02d", n)
			resolved.Values = append(resolved.Values, strings.ReplaceAll(spec.PathList.Template, PathPlaceholder, index))
			resolved.Naming = append(resolved.Naming, index)
		}
	case config.ScanModeList:
		resolved.Values = copyValues(spec.Values)
		resolved.Naming = copyValues(spec.Values)
	default:
		return nil, studytypes.NewConfigurationError("scanning method for parameter %s is not recognized", spec.Parameter).
			WithGeneration(generation).WithParameter(spec.Parameter)
	}

	if len(spec.Subvariables) > 0 {
		for i, value := range resolved.Values {
			record := make(Record, len(spec.Subvariables))
			for j, name := range spec.Subvariables {
				record[j] = Field{Name: name, Value: value}
			}
			resolved.Values[i] = record
		}
	}

	if len(resolved.Values) != len(resolved.Naming) {
		return nil, studytypes.NewConfigurationError("resolved %d values but %d naming values", len(resolved.Values), len(resolved.Naming)).
			WithGeneration(generation).WithParameter(spec.Parameter)
	}
	return resolved, nil
}

// linspace returns count evenly spaced numbers over [start, stop], both included.
func linspace(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	values := make([]float64, count)
	if count == 1 {
		values[0] = start
		return values
	}

	step := (stop - start) / float64(count-1)
	for i := range values {
		values[i] = float64(i)*step + start
	}
	values[count-1] = stop
	return values
}

func round(value float64) float64 {
	return math.RoundToEven(value*roundingScale) / roundingScale
}

func roundAll(values []float64) []interface{} {
	rounded := make([]interface{}, len(values))
	for i, value := range values {
		rounded[i] = round(value)
	}
	return rounded
}

func copyValues(values []interface{}) []interface{} {
	if values == nil {
		return nil
	}
	copied := make([]interface{}, len(values))
	copy(copied, values)
	return copied
}
