package act

import (
	"github.com/snowdamiz/meshrt/gen"
)

//
// All For One and Rest For One implementation
//

func createSupAllRestForOne(rest bool) supBehavior {
	return &supARFO{rest: rest}
}

type supARFO struct {
	// rest_for_one affects the children started after the terminated one only
	rest bool
}

func (s *supARFO) init(specs []SupervisorChildSpec) []*supChild {
	return supStaticChildren(specs)
}

func (s *supARFO) childStart(sup *Supervisor, name gen.Atom, args []any) (int, error) {
	return supStaticChildStart(sup.children, name, args)
}

func (s *supARFO) childTerminated(children []*supChild, i int, reason error) supAction {
	var action supAction

	if supShouldRestart(children[i].spec.Restart, reason) == false {
		return action
	}

	first := 0
	if s.rest {
		first = i + 1
	}

	// siblings are terminated in reverse start order
	for j := len(children) - 1; j >= first; j-- {
		if j == i {
			continue
		}
		if children[j].state != SupervisorChildStateRunning {
			continue
		}
		action.terminate = append(action.terminate, j)
	}

	// and restarted in start order. temporary ones are left stopped
	if s.rest {
		action.start = append(action.start, i)
	}
	for j := first; j < len(children); j++ {
		if j != i {
			if children[j].state != SupervisorChildStateRunning {
				continue
			}
			if children[j].spec.Restart == SupervisorStrategyTemporary {
				continue
			}
		}
		action.start = append(action.start, j)
	}

	return action
}

func (s *supARFO) register() bool {
	return true
}
