// Package notation expands the compact range notation used in panel module
// manifests, e.g. "AIN#(0:3)" for four sequential register names or
// "led-#(red,green)" for an enumerated pair.
package notation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	groupStart = "#("
	groupEnd   = ")"
)

// Pair is one expanded register/element correspondence.
type Pair struct {
	Binding  string // device register name
	Template string // UI element identifier
}

// HasRange reports whether pattern contains a range group.
func HasRange(pattern string) bool {
	i := strings.Index(pattern, groupStart)
	if i < 0 {
		return false
	}
	return strings.Index(pattern[i:], groupEnd) >= 0
}

// Expand resolves the first range group in pattern into the ordered list of
// concrete names it denotes. A pattern without a group expands to itself.
func Expand(pattern string) ([]string, error) {
	i := strings.Index(pattern, groupStart)
	if i < 0 {
		return []string{pattern}, nil
	}
	j := strings.Index(pattern[i+len(groupStart):], groupEnd)
	if j < 0 {
		return nil, fmt.Errorf("unterminated range group in %q", pattern)
	}
	prefix := pattern[:i]
	group := pattern[i+len(groupStart) : i+len(groupStart)+j]
	suffix := pattern[i+len(groupStart)+j+len(groupEnd):]

	parts, err := expandGroup(group)
	if err != nil {
		return nil, fmt.Errorf("range group in %q: %w", pattern, err)
	}

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, prefix+p+suffix)
	}
	return names, nil
}

// expandGroup resolves the text between "#(" and ")" into its members,
// either a lo:hi numeric span or a comma-separated enumeration.
func expandGroup(group string) ([]string, error) {
	if group == "" {
		return nil, fmt.Errorf("empty group")
	}
	if lo, hi, ok := strings.Cut(group, ":"); ok {
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad lower bound %q", lo)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("bad upper bound %q", hi)
		}
		step := 1
		if to < from {
			step = -1
		}
		var out []string
		for n := from; ; n += step {
			out = append(out, strconv.Itoa(n))
			if n == to {
				break
			}
		}
		return out, nil
	}
	items := strings.Split(group, ",")
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			return nil, fmt.Errorf("empty enumeration member")
		}
		out = append(out, it)
	}
	return out, nil
}

// ExpandPair expands a register pattern and an element pattern in parallel.
// Both must denote the same number of names; the i-th register pairs with
// the i-th element, in declared order.
func ExpandPair(bindingPattern, templatePattern string) ([]Pair, error) {
	bindings, err := Expand(bindingPattern)
	if err != nil {
		return nil, err
	}
	templates, err := Expand(templatePattern)
	if err != nil {
		return nil, err
	}
	if len(bindings) != len(templates) {
		return nil, fmt.Errorf("binding %q expands to %d names but template %q expands to %d",
			bindingPattern, len(bindings), templatePattern, len(templates))
	}
	pairs := make([]Pair, len(bindings))
	for i := range bindings {
		pairs[i] = Pair{Binding: bindings[i], Template: templates[i]}
	}
	return pairs, nil
}
