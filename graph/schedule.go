package graph

import "fmt"

// waves groups the registered nodes into dependency levels using iterative
// in-degree peeling (Kahn's algorithm). Wave i+1 contains only nodes whose
// predecessors all sit in waves <= i; nodes with no incoming edges land in
// wave 0. Within a wave, nodes keep registration order so execution and
// progress reporting are deterministic.
//
// If at any point no node has zero in-degree while nodes remain unplaced,
// the remaining nodes form a cycle (a self-edge never reaches zero
// in-degree on its own) and an error wrapping ErrCycleDetected is returned.
//
// waves assumes checkEdges has already passed; edges naming unregistered
// nodes would corrupt the in-degree counts.
func (p *Pipeline) waves() ([][]string, error) {
	inDeg := make(map[string]int, len(p.order))
	succ := make(map[string][]string, len(p.order))
	for _, name := range p.order {
		inDeg[name] = 0
	}

	// The edge list is semantically a set: dedupe so a repeated declaration
	// does not inflate in-degrees.
	seen := make(map[Edge]bool, len(p.edges))
	for _, e := range p.edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		succ[e.From] = append(succ[e.From], e.To)
		inDeg[e.To]++
	}

	var levels [][]string
	placed := make(map[string]bool, len(p.order))
	remaining := len(p.order)

	for remaining > 0 {
		var wave []string
		for _, name := range p.order {
			if !placed[name] && inDeg[name] == 0 {
				wave = append(wave, name)
			}
		}
		if len(wave) == 0 {
			return nil, fmt.Errorf("%w: %d node(s) locked in a dependency loop", ErrCycleDetected, remaining)
		}

		for _, name := range wave {
			placed[name] = true
			remaining--
			for _, next := range succ[name] {
				inDeg[next]--
			}
		}
		levels = append(levels, wave)
	}

	return levels, nil
}
