// Package meshrt is the entry point of the actor runtime. It starts a node
// with the scheduler, the process registry and the loggers. See the gen
// package for the API of the node and its processes and the act package for
// the ready-made behaviors (Supervisor, Service).
package meshrt

import (
	"github.com/snowdamiz/meshrt/gen"
	"github.com/snowdamiz/meshrt/node"
)

// StartNode starts a new node with the given name
func StartNode(name gen.Atom, options gen.NodeOptions) (gen.Node, error) {
	return node.Start(name, options)
}
