// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"strings"
)

// DotOption customizes DOT export.
type DotOption func(*dotConfig)

type dotConfig struct {
	graphName string
	edgeLabel func(u, v int) string
}

// WithGraphName sets the DOT graph identifier (default "G").
func WithGraphName(name string) DotOption {
	return func(c *dotConfig) {
		if name != "" {
			c.graphName = name
		}
	}
}

// WithEdgeLabel attaches a label to every edge for which fn returns a
// non-empty string. For undirected edges fn receives From < To.
func WithEdgeLabel(fn func(u, v int) string) DotOption {
	return func(c *dotConfig) {
		c.edgeLabel = fn
	}
}

func newDotConfig(opts []DotOption) dotConfig {
	c := dotConfig{graphName: "G"}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// writeDOT emits a digraph where undirected edges carry dir=none.
func writeDOT(names []string, edges []Edge, c dotConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", c.graphName)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %q;\n", name)
	}
	for _, e := range edges {
		var attrs []string
		if !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		if c.edgeLabel != nil {
			if label := c.edgeLabel(e.From, e.To); label != "" {
				attrs = append(attrs, fmt.Sprintf("label=%q", label))
			}
		}
		fmt.Fprintf(&sb, "  %q -> %q", names[e.From], names[e.To])
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(attrs, ", "))
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}\n")

	return sb.String()
}

// DOT renders the PDAG in Graphviz DOT form.
func (g *PDAG) DOT(opts ...DotOption) string {
	return writeDOT(g.names, g.Edges(), newDotConfig(opts))
}

// DOT renders the DAG in Graphviz DOT form.
func (d *NamedDAG) DOT(opts ...DotOption) string {
	arcs := d.Arcs()
	edges := make([]Edge, len(arcs))
	for i, a := range arcs {
		edges[i] = Edge{From: a.From, To: a.To, Directed: true}
	}

	return writeDOT(d.names, edges, newDotConfig(opts))
}
