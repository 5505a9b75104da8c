package graph

import "fmt"

// Validate checks the pipeline's structural integrity without running any
// node: every edge endpoint must name a registered node, and the edge
// relation must be acyclic. Execute performs the same checks before the
// first wave starts.
func (p *Pipeline) Validate() error {
	if err := p.checkEdges(); err != nil {
		return err
	}
	_, err := p.waves()
	return err
}

// checkEdges verifies referential integrity in edge-declaration order and
// reports the first violation found.
func (p *Pipeline) checkEdges() error {
	for _, e := range p.edges {
		if !p.HasNode(e.From) {
			return fmt.Errorf("%w: %q", ErrMissingSourceNode, e.From)
		}
		if !p.HasNode(e.To) {
			return fmt.Errorf("%w: %q", ErrMissingTargetNode, e.To)
		}
	}
	return nil
}
