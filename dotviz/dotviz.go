// Package dotviz renders an associated memlog, or a finished run's per-IP
// message fan-out, as a Graphviz graph for the driver's -dot debugging
// flag. It builds the graph as a utils/dot.DotGraph, whose text/template
// writer produces the .dot source; the driver can additionally rasterize
// that source to an image with utils/dot.DotToImage (goccy/go-graphviz).
package dotviz

import (
	"fmt"

	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/eval"
	"github.com/symtrace/symtrace/utils/dot"
)

// BlockGraph renders an associated MemlogList as a chain of basic-block
// nodes in dynamic execution order — the order the blocks were actually
// visited, which can revisit the same static block many times across a
// loop, unlike a static CFG.
func BlockGraph(list *assoc.MemlogList) *dot.DotGraph {
	g := &dot.DotGraph{
		Title:   fmt.Sprintf("memlog (%d instructions)", list.InstCount),
		Options: map[string]string{"rankdir": "TB"},
	}

	var prev *dot.DotNode
	for i, be := range list.Blocks {
		id := fmt.Sprintf("%s#%d", be.Block.String(), i)
		n := &dot.DotNode{
			ID: id,
			Attrs: dot.DotAttrs{
				"label": fmt.Sprintf("%s\\n%d insts", be.Block.String(), len(be.Insts)),
			},
		}
		g.Nodes = append(g.Nodes, n)
		if prev != nil {
			g.Edges = append(g.Edges, &dot.DotEdge{From: prev, To: n, Attrs: dot.DotAttrs{}})
		}
		prev = n
	}
	return g
}

// MessagesByIPGraph renders a finished run's per-IP message fan-out: one
// node per IP that received at least one message, sized by how many it
// received, all hanging off a single root.
func MessagesByIPGraph(state *eval.State, ips []uint64) *dot.DotGraph {
	g := &dot.DotGraph{
		Title:   "messages by IP",
		Options: map[string]string{"rankdir": "LR"},
	}
	root := &dot.DotNode{ID: "root", Attrs: dot.DotAttrs{"label": "run", "shape": "box"}}
	g.Nodes = append(g.Nodes, root)

	for _, ip := range ips {
		msgs := state.MessagesByIP(ip)
		if len(msgs) == 0 {
			continue
		}
		n := &dot.DotNode{
			ID: fmt.Sprintf("ip_%x", ip),
			Attrs: dot.DotAttrs{
				"label": fmt.Sprintf("0x%x\\n%d messages", ip, len(msgs)),
			},
		}
		g.Nodes = append(g.Nodes, n)
		g.Edges = append(g.Edges, &dot.DotEdge{From: root, To: n, Attrs: dot.DotAttrs{}})
	}
	return g
}
