package plan

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMapperCycle is returned by EmissionOrder when mappers depend on each
// other in a cycle.
var ErrMapperCycle = errors.New("mapper dependency cycle")

// Dependencies returns, per mapper name, the sorted names of the other
// mappers its plans delegate to (nested objects, collections and parameter
// bindings).
func Dependencies(plans []*MappingPlan) map[string][]string {
	sets := make(map[string]map[string]struct{})

	for _, p := range plans {
		deps, ok := sets[p.Mapper]
		if !ok {
			deps = make(map[string]struct{})
			sets[p.Mapper] = deps
		}

		for _, name := range referencedMappers(p) {
			if name != p.Mapper {
				deps[name] = struct{}{}
			}
		}
	}

	out := make(map[string][]string, len(sets))

	for mapper, deps := range sets {
		names := make([]string, 0, len(deps))
		for d := range deps {
			names = append(names, d)
		}

		sort.Strings(names)
		out[mapper] = names
	}

	return out
}

func referencedMappers(p *MappingPlan) []string {
	var names []string

	for _, b := range p.Creation.Bindings {
		if b.Mapper != nil {
			names = append(names, b.Mapper.Name)
		}
	}

	for _, in := range p.Instructions {
		switch v := in.(type) {
		case NestedObject:
			names = append(names, mapperName(v.Mapper))
		case Collection:
			names = append(names, mapperName(v.ElementMapper))
		}
	}

	return names
}

// EmissionOrder orders mapper names so that every mapper comes after the
// mappers it depends on. Among mappers that are ready at the same time the
// one listed first in names wins. Dependencies on names not listed are
// ignored.
func EmissionOrder(names []string, deps map[string][]string) ([]string, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	order, err := topoSort(len(names), func(i int) []int {
		var out []int

		for _, d := range deps[names[i]] {
			if j, ok := index[d]; ok && j != i {
				out = append(out, j)
			}
		}

		return out
	})
	if err != nil {
		return nil, err
	}

	sorted := make([]string, 0, len(order))
	for _, i := range order {
		sorted = append(sorted, names[i])
	}

	return sorted, nil
}

// topoSort returns node indices in dependency order. depsFn(i) yields the
// indices that must come before i. When several nodes are ready the smallest
// index is taken.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, ErrMapperCycle
	}

	return order, nil
}
