package act

import (
	"github.com/snowdamiz/meshrt/gen"
)

//
// One For One implementation
//

func createSupOneForOne() supBehavior {
	return &supOFO{}
}

type supOFO struct{}

func (s *supOFO) init(specs []SupervisorChildSpec) []*supChild {
	return supStaticChildren(specs)
}

func (s *supOFO) childStart(sup *Supervisor, name gen.Atom, args []any) (int, error) {
	return supStaticChildStart(sup.children, name, args)
}

func (s *supOFO) childTerminated(children []*supChild, i int, reason error) supAction {
	var action supAction

	if supShouldRestart(children[i].spec.Restart, reason) {
		// the siblings are not affected
		action.start = []int{i}
	}
	return action
}

func (s *supOFO) register() bool {
	return true
}

// common for the supervisors with the static list of children

func supStaticChildren(specs []SupervisorChildSpec) []*supChild {
	children := make([]*supChild, 0, len(specs))
	for i, spec := range specs {
		c := &supChild{
			spec: spec,
			args: spec.Args,
			i:    i,
		}
		children = append(children, c)
	}
	return children
}

func supStaticChildStart(children []*supChild, name gen.Atom, args []any) (int, error) {
	for i, c := range children {
		if c.spec.Name != name {
			continue
		}
		switch c.state {
		case SupervisorChildStateRunning, SupervisorChildStateStarting:
			return i, ErrSupervisorChildRunning
		}
		if len(args) > 0 {
			c.args = args
		}
		return i, nil
	}
	return -1, ErrSupervisorChildUnknown
}
