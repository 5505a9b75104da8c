package graph

import (
	"fmt"
	"strings"
)

// Mermaid generates a Mermaid flowchart of the pipeline topology. Nodes
// appear in registration order and edges in declaration order, so the output
// is stable across calls. This is a debugging aid, not a serialization
// format: a pipeline cannot be rebuilt from it.
func (p *Pipeline) Mermaid() string {
	var sb strings.Builder

	sb.WriteString("flowchart TD\n")
	for _, name := range p.order {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", name, name))
	}
	for _, edge := range p.edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", edge.From, edge.To))
	}

	return sb.String()
}

// DOT generates a Graphviz representation of the pipeline topology.
func (p *Pipeline) DOT() string {
	var sb strings.Builder

	sb.WriteString("digraph pipeline {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")
	for _, name := range p.order {
		sb.WriteString(fmt.Sprintf("    %q;\n", name))
	}
	for _, edge := range p.edges {
		sb.WriteString(fmt.Sprintf("    %q -> %q;\n", edge.From, edge.To))
	}
	sb.WriteString("}\n")

	return sb.String()
}
