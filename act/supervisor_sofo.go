package act

import (
	"github.com/snowdamiz/meshrt/gen"
)

//
// Simple One For One implementation. The child specs are templates, the
// instances are started dynamically with StartChild
//

func createSupSimpleOneForOne() supBehavior {
	return &supSOFO{}
}

type supSOFO struct{}

func (s *supSOFO) init(specs []SupervisorChildSpec) []*supChild {
	// nothing to start
	return nil
}

func (s *supSOFO) childStart(sup *Supervisor, name gen.Atom, args []any) (int, error) {
	for _, spec := range sup.specs {
		if spec.Name != name {
			continue
		}
		if len(args) == 0 {
			args = spec.Args
		}
		c := &supChild{
			spec: spec,
			args: args,
			i:    len(sup.children),
		}
		sup.children = append(sup.children, c)
		return c.i, nil
	}
	return -1, ErrSupervisorChildUnknown
}

func (s *supSOFO) childTerminated(children []*supChild, i int, reason error) supAction {
	var action supAction

	if supShouldRestart(children[i].spec.Restart, reason) {
		action.start = []int{i}
		return action
	}
	action.remove = true
	return action
}

func (s *supSOFO) register() bool {
	return false
}
