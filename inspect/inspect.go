// Package inspect browses a running Objective-C runtime: class list,
// superclass chains, and per-class method lists. It is backend-neutral;
// the libobjc package and the testbed both satisfy Source through the
// Funcs adapter.
package inspect

import (
	"sort"
	"strings"

	"github.com/glyphbox/objc/errors"
)

// Source provides the raw introspection queries.
type Source interface {
	// Label names the backend, for display.
	Label() string
	// ClassNames returns every registered class, sorted.
	ClassNames() ([]string, error)
	// SuperclassChain returns the class and its ancestors, root last.
	SuperclassChain(class string) ([]string, error)
	// MethodNames returns a class's selectors, "-" prefixed for
	// instance methods and "+" for class methods, sorted.
	MethodNames(class string) ([]string, error)
}

// Funcs adapts three query functions to Source.
type Funcs struct {
	Name    string
	Classes func() ([]string, error)
	Chain   func(class string) ([]string, error)
	Methods func(class string) ([]string, error)
}

func (f Funcs) Label() string { return f.Name }

func (f Funcs) ClassNames() ([]string, error) { return f.Classes() }

func (f Funcs) SuperclassChain(class string) ([]string, error) { return f.Chain(class) }

func (f Funcs) MethodNames(class string) ([]string, error) { return f.Methods(class) }

// ClassInfo bundles everything the browser shows for one class.
type ClassInfo struct {
	Name    string
	Chain   []string
	Methods []string
}

// Describe collects a class's chain and methods in one round trip.
func Describe(src Source, class string) (*ClassInfo, error) {
	chain, err := src.SuperclassChain(class)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInspect, errors.KindNotFound, err, "superclass chain of "+class)
	}
	methods, err := src.MethodNames(class)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInspect, errors.KindNotFound, err, "methods of "+class)
	}
	return &ClassInfo{Name: class, Chain: chain, Methods: methods}, nil
}

// Filter returns the names containing substr, case-insensitively,
// keeping the input order. An empty substr returns the input unchanged.
func Filter(names []string, substr string) []string {
	if substr == "" {
		return names
	}
	needle := strings.ToLower(substr)
	var out []string
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), needle) {
			out = append(out, n)
		}
	}
	return out
}

// Summarize counts classes by their root ancestor, a cheap overview of
// a large runtime. Classes whose chain cannot be resolved are skipped.
func Summarize(src Source) (map[string]int, error) {
	names, err := src.ClassNames()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, name := range names {
		chain, err := src.SuperclassChain(name)
		if err != nil || len(chain) == 0 {
			continue
		}
		counts[chain[len(chain)-1]]++
	}
	return counts, nil
}

// Roots returns the keys of a Summarize result, sorted by descending
// count and then name.
func Roots(counts map[string]int) []string {
	roots := make([]string, 0, len(counts))
	for root := range counts {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		if counts[roots[i]] != counts[roots[j]] {
			return counts[roots[i]] > counts[roots[j]]
		}
		return roots[i] < roots[j]
	})
	return roots
}
