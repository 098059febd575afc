package scan

import (
	"strings"

	"studyda/internal/config"
)

// Binding is the value of one parameter in a combination.
type Binding struct {
	Parameter string
	Value     interface{}
}

// Combination is one point of the cartesian product of a generation's scans.
type Combination struct {
	// Bindings holds the bound values in declared parameter order.
	Bindings []Binding

	// Naming holds the naming values at the same positions as Bindings.
	Naming []Binding

	// Suffix is the directory name fragment of the combination: "{param}_{naming}_"
	// for every parameter, concatenated in declared order.
	Suffix string
}

// Map returns the bindings keyed by parameter name.
func (c Combination) Map() map[string]interface{} {
	bindings := make(map[string]interface{}, len(c.Bindings))
	for _, binding := range c.Bindings {
		bindings[binding.Parameter] = binding.Value
	}
	return bindings
}

// ParametersLiteral renders the bindings as the Python dict literal templates
// receive, e.g. "{'qx' : 62.31, 'qy' : 60.32, }".
func (c Combination) ParametersLiteral() string {
	var b strings.Builder
	b.WriteString("{")
	for _, binding := range c.Bindings {
		b.WriteString(quote(binding.Parameter))
		b.WriteString(" : ")
		b.WriteString(Literal(binding.Value))
		b.WriteString(", ")
	}
	b.WriteString("}")
	return b.String()
}

// Expand resolves every scan of generation, in declared order, and returns the
// cartesian product of their values. The first parameter varies slowest. Without
// scans the result is a single combination with no bindings and an empty suffix.
func Expand(generation string, specs []config.ScanSpec) ([]Combination, error) {
	resolved := make([]*Resolved, 0, len(specs))
	for _, spec := range specs {
		r, err := Resolve(generation, spec)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, r)
	}
	return Product(resolved), nil
}

// Product walks the index space of resolved scans in lexicographic order and builds
// one combination per index tuple, values and naming values taken in lockstep.
func Product(resolved []*Resolved) []Combination {
	total := 1
	for _, r := range resolved {
		total *= r.Len()
	}
	if total == 0 {
		return nil
	}

	combinations := make([]Combination, 0, total)
	indices := make([]int, len(resolved))
	for {
		combinations = append(combinations, combinationAt(resolved, indices))

		// Advance the odometer, last parameter fastest.
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < resolved[pos].Len() {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return combinations
		}
	}
}

func combinationAt(resolved []*Resolved, indices []int) Combination {
	combination := Combination{
		Bindings: make([]Binding, len(resolved)),
		Naming:   make([]Binding, len(resolved)),
	}

	var suffix strings.Builder
	for i, r := range resolved {
		value := r.Values[indices[i]]
		naming := r.Naming[indices[i]]
		combination.Bindings[i] = Binding{Parameter: r.Parameter, Value: value}
		combination.Naming[i] = Binding{Parameter: r.Parameter, Value: naming}

		suffix.WriteString(r.Parameter)
		suffix.WriteString("_")
		suffix.WriteString(Str(naming))
		suffix.WriteString("_")
	}
	combination.Suffix = suffix.String()
	return combination
}
