/*
	Package graph walks dependency graphs of computation steps.

	There is deliberately no graph *structure* here: steps already carry
	their edges (produce.StepInfo.Deps), so a walk is just a traversal
	with dedup, and everything downstream (reporting, upstream checks)
	consumes flat slices.
*/
package graph

import (
	"sort"

	"go.polydawn.net/keepr/api/def"
	"go.polydawn.net/keepr/core/produce"
)

/*
	Upstream returns every step reachable from the given roots through
	declared deps: the roots themselves plus the transitive closure.

	Steps are deduplicated by signature, so diamonds appear exactly
	once.  The order is deterministic: breadth-first from the roots in
	the order given, with each step's dep edges taken in name-sorted
	order, first sighting wins.  Nil roots are skipped.

	Declared deps cannot normally form a cycle (they are fixed at
	construction, so an edge always points at an older step), but the
	visited set bounds the walk regardless, should some exotic Any
	implementation manage to close a loop.
*/
func Upstream(roots ...produce.Any) []produce.Any {
	seen := make(map[def.Signature]struct{})
	out := []produce.Any{}
	queue := make([]produce.Any, 0, len(roots))
	for _, root := range roots {
		if root == nil {
			continue
		}
		queue = append(queue, root)
	}
	for len(queue) > 0 {
		step := queue[0]
		queue = queue[1:]
		sig := step.Signature()
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, step)

		info := step.Info()
		names := make([]string, 0, len(info.Deps))
		for name := range info.Deps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			queue = append(queue, info.Deps[name])
		}
	}
	return out
}
