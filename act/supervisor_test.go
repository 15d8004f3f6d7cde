package act

import (
	"errors"
	"testing"
	"time"

	"github.com/snowdamiz/meshrt/gen"
	"github.com/snowdamiz/meshrt/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func startTestNode(t *testing.T, name gen.Atom) gen.Node {
	t.Helper()
	options := gen.NodeOptions{}
	options.Log.DefaultLogger.Disable = true
	n, err := node.Start(name, options)
	require.NoError(t, err)
	t.Cleanup(func() {
		n.StopWithTimeout(time.Second)
	})
	return n
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(3 * time.Second):
		t.Fatal("timed out")
	}
	var empty T
	return empty
}

func expectNothing[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected %#v", v)
	case <-time.After(200 * time.Millisecond):
	}
}

// call makes the request on behalf of a temporary process
func call(t *testing.T, n gen.Node, fn func(p gen.Process) []any) []any {
	t.Helper()
	result := make(chan []any, 1)
	_, err := n.SpawnFunc(func(p gen.Process, args ...any) error {
		result <- fn(p)
		return nil
	}, gen.ProcessOptions{})
	require.NoError(t, err)
	return waitFor(t, result)
}

//
// test worker reports its start, handles "crash", "stop" and "inc" messages
// and answers any request with its counter
//

type childEvent struct {
	name gen.Atom
	pid  gen.PID
}

func factoryTestWorker() gen.ProcessBehavior {
	return &testWorker{}
}

type testWorker struct {
	Service

	count int
}

func (w *testWorker) Init(args ...any) error {
	events := args[0].(chan childEvent)
	events <- childEvent{name: args[1].(gen.Atom), pid: w.PID()}
	return nil
}

func (w *testWorker) HandleMessage(from gen.PID, message any) error {
	switch message {
	case "crash":
		return errBoom
	case "stop":
		return gen.TerminateReasonNormal
	case "inc":
		w.count++
	}
	return nil
}

func (w *testWorker) HandleCall(from gen.PID, ref gen.Ref, request any) (any, error) {
	return w.count, nil
}

// counts increments the counters of the given workers and returns their values
func counts(t *testing.T, n gen.Node, inc bool, pids ...gen.PID) []any {
	t.Helper()
	return call(t, n, func(p gen.Process) []any {
		var out []any
		for _, pid := range pids {
			if inc {
				p.Send(pid, "inc")
			}
			v, err := p.Call(pid, "count")
			if err != nil {
				return []any{err}
			}
			out = append(out, v)
		}
		return out
	})
}

func factoryTestSup() gen.ProcessBehavior {
	return &testSup{}
}

type testSup struct {
	Supervisor
}

func (s *testSup) Init(args ...any) (SupervisorSpec, error) {
	return args[0].(SupervisorSpec), nil
}

func workerSpec(events chan childEvent, name gen.Atom, restart SupervisorStrategy) SupervisorChildSpec {
	return SupervisorChildSpec{
		Name:    name,
		Factory: factoryTestWorker,
		Args:    []any{events, name},
		Restart: restart,
	}
}

// waitStarted waits for the start of the given children. The children are
// spawned in order, but their Init may run on different workers.
func waitStarted(t *testing.T, events chan childEvent, names ...gen.Atom) map[gen.Atom]gen.PID {
	t.Helper()
	pids := make(map[gen.Atom]gen.PID)
	for range names {
		e := waitFor(t, events)
		pids[e.name] = e.pid
	}
	for _, name := range names {
		require.Contains(t, pids, name)
	}
	return pids
}

func TestSupervisorOneForOne(t *testing.T) {
	n := startTestNode(t, "t_sup_ofo@localhost")
	events := make(chan childEvent, 10)

	spec := SupervisorSpec{
		Type: SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
			workerSpec(events, "b", SupervisorStrategyPermanent),
		},
	}
	sup, err := n.SpawnRegister("sup", factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	pids := waitStarted(t, events, "a", "b")
	assert.Equal(t, []any{1, 1}, counts(t, n, true, pids["a"], pids["b"]))
	assert.Equal(t, []any{2}, counts(t, n, true, pids["b"]))

	require.NoError(t, n.Send(gen.Atom("a"), "crash"))
	restarted := waitStarted(t, events, "a")
	assert.NotEqual(t, pids["a"], restarted["a"])
	expectNothing(t, events)

	// "a" starts over, "b" keeps its state
	assert.Equal(t, []any{0, 2}, counts(t, n, false, restarted["a"], pids["b"]))

	assert.True(t, n.IsProcessAlive(pids["b"]))
	assert.True(t, n.IsProcessAlive(sup))
	pid, err := n.Whereis("a")
	require.NoError(t, err)
	assert.Equal(t, restarted["a"], pid)

	out := call(t, n, func(p gen.Process) []any {
		children, err := SupervisorChildren(p, sup)
		return []any{children, err}
	})
	require.NoError(t, errorOf(out[1]))
	children := out[0].([]SupervisorChild)
	require.Len(t, children, 2)
	assert.Equal(t, SupervisorChild{Spec: "a", PID: restarted["a"], State: SupervisorChildStateRunning}, children[0])
	assert.Equal(t, SupervisorChild{Spec: "b", PID: pids["b"], State: SupervisorChildStateRunning}, children[1])
}

func TestSupervisorAllForOne(t *testing.T) {
	n := startTestNode(t, "t_sup_afo@localhost")
	events := make(chan childEvent, 10)

	spec := SupervisorSpec{
		Type: SupervisorTypeAllForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
			workerSpec(events, "b", SupervisorStrategyPermanent),
			workerSpec(events, "c", SupervisorStrategyPermanent),
		},
	}
	_, err := n.Spawn(factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	pids := waitStarted(t, events, "a", "b", "c")

	require.NoError(t, n.Send(pids["b"], "crash"))
	restarted := waitStarted(t, events, "a", "b", "c")
	for name, pid := range pids {
		assert.False(t, n.IsProcessAlive(pid), name)
		assert.True(t, n.IsProcessAlive(restarted[name]), name)
	}
}

func TestSupervisorRestForOne(t *testing.T) {
	n := startTestNode(t, "t_sup_rfo@localhost")
	events := make(chan childEvent, 10)

	spec := SupervisorSpec{
		Type: SupervisorTypeRestForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
			workerSpec(events, "b", SupervisorStrategyPermanent),
			workerSpec(events, "c", SupervisorStrategyPermanent),
		},
	}
	_, err := n.Spawn(factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	pids := waitStarted(t, events, "a", "b", "c")

	require.NoError(t, n.Send(pids["b"], "crash"))
	restarted := waitStarted(t, events, "b", "c")
	expectNothing(t, events)

	assert.True(t, n.IsProcessAlive(pids["a"]))
	assert.False(t, n.IsProcessAlive(pids["c"]))
	assert.True(t, n.IsProcessAlive(restarted["c"]))
}

func TestSupervisorRestartIntensity(t *testing.T) {
	n := startTestNode(t, "t_sup_intensity@localhost")
	events := make(chan childEvent, 10)
	reasons := make(chan error, 1)

	spec := SupervisorSpec{
		Type: SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
		},
		Restart: SupervisorRestart{Intensity: 2, Period: 5},
	}
	_, err := n.Spawn(factoryTestSup, gen.ProcessOptions{
		OnTerminate: func(pid gen.PID, reason error) {
			reasons <- reason
		},
	}, spec)
	require.NoError(t, err)
	pid := waitStarted(t, events, "a")["a"]

	for i := 0; i < 2; i++ {
		require.NoError(t, n.Send(pid, "crash"))
		pid = waitStarted(t, events, "a")["a"]
	}
	expectNothing(t, reasons)

	// third restart within the period
	require.NoError(t, n.Send(pid, "crash"))
	assert.Equal(t, ErrSupervisorRestartsExceeded, waitFor(t, reasons))
	expectNothing(t, events)
}

func TestSupervisorRestartIntensityZero(t *testing.T) {
	n := startTestNode(t, "t_sup_intensity0@localhost")
	events := make(chan childEvent, 10)
	reasons := make(chan error, 1)

	spec := SupervisorSpec{
		Type: SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
		},
		Restart: SupervisorRestart{Intensity: 0, Period: 5},
	}
	_, err := n.Spawn(factoryTestSup, gen.ProcessOptions{
		OnTerminate: func(pid gen.PID, reason error) {
			reasons <- reason
		},
	}, spec)
	require.NoError(t, err)
	pid := waitStarted(t, events, "a")["a"]

	// no restarts allowed at all
	require.NoError(t, n.Send(pid, "crash"))
	assert.Equal(t, ErrSupervisorRestartsExceeded, waitFor(t, reasons))
	expectNothing(t, events)
}

func TestSupervisorRestartStrategy(t *testing.T) {
	n := startTestNode(t, "t_sup_strategy@localhost")
	events := make(chan childEvent, 10)

	spec := SupervisorSpec{
		Type: SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "transient", SupervisorStrategyTransient),
			workerSpec(events, "temporary", SupervisorStrategyTemporary),
		},
	}
	sup, err := n.Spawn(factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	pids := waitStarted(t, events, "transient", "temporary")

	require.NoError(t, n.Send(pids["transient"], "stop"))
	require.NoError(t, n.Send(pids["temporary"], "crash"))
	expectNothing(t, events)

	out := call(t, n, func(p gen.Process) []any {
		children, err := SupervisorChildren(p, sup)
		return []any{children, err}
	})
	require.NoError(t, errorOf(out[1]))
	for _, c := range out[0].([]SupervisorChild) {
		assert.Equal(t, SupervisorChildStateStopped, c.State, c.Spec)
		assert.Equal(t, gen.PID{}, c.PID)
	}

	// transient child is restarted on a crash
	pid, err := n.Whereis("transient")
	assert.ErrorIs(t, err, gen.ErrNameUnknown)
	out = call(t, n, func(p gen.Process) []any {
		pid, err := SupervisorRestartChild(p, sup, "transient")
		return []any{pid, err}
	})
	require.NoError(t, errorOf(out[1]))
	pid = waitStarted(t, events, "transient")["transient"]
	assert.Equal(t, pid, out[0])

	require.NoError(t, n.Send(pid, "crash"))
	waitStarted(t, events, "transient")
}

func TestSupervisorManagement(t *testing.T) {
	n := startTestNode(t, "t_sup_manage@localhost")
	events := make(chan childEvent, 10)

	spec := SupervisorSpec{
		Type: SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
		},
	}
	sup, err := n.SpawnRegister("manage_sup", factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	pid := waitStarted(t, events, "a")["a"]

	out := call(t, n, func(p gen.Process) []any {
		var out []any
		out = append(out, SupervisorTerminateChild(p, gen.Atom("manage_sup"), "a"))
		out = append(out, p.Node().IsProcessAlive(pid))

		_, err := SupervisorRestartChild(p, sup, "a")
		out = append(out, err)
		_, err = SupervisorRestartChild(p, sup, "a")
		out = append(out, err)

		err = SupervisorAddChild(p, sup, workerSpec(events, "c", SupervisorStrategyTransient))
		out = append(out, err)
		err = SupervisorAddChild(p, sup, workerSpec(events, "c", SupervisorStrategyTransient))
		out = append(out, err)

		_, err = SupervisorStartChild(p, sup, "c")
		out = append(out, err)
		_, err = SupervisorStartChild(p, sup, "unknown")
		out = append(out, err)
		out = append(out, SupervisorTerminateChild(p, sup, "unknown"))
		return out
	})

	expected := []any{
		nil, false,
		nil, ErrSupervisorChildRunning,
		nil, ErrSupervisorChildDuplicate,
		ErrSupervisorChildRunning, ErrSupervisorChildUnknown,
		ErrSupervisorChildUnknown,
	}
	assert.Equal(t, expected, out)
	waitStarted(t, events, "a", "c")
}

func TestSupervisorShutdownTimeout(t *testing.T) {
	n := startTestNode(t, "t_sup_shutdown@localhost")
	events := make(chan childEvent, 10)

	// trapping the exits, the child ignores TerminateReasonShutdown
	stubborn := workerSpec(events, "stubborn", SupervisorStrategyPermanent)
	stubborn.Options.TrapExit = true
	stubborn.Shutdown.Timeout = 100 * time.Millisecond

	brutal := workerSpec(events, "brutal", SupervisorStrategyPermanent)
	brutal.Options.TrapExit = true
	brutal.Shutdown.Brutal = true

	spec := SupervisorSpec{
		Type:     SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{stubborn, brutal},
	}
	sup, err := n.Spawn(factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	pids := waitStarted(t, events, "stubborn", "brutal")

	out := call(t, n, func(p gen.Process) []any {
		start := time.Now()
		err := SupervisorTerminateChild(p, sup, "stubborn")
		elapsed := time.Since(start)
		return []any{err, elapsed, SupervisorTerminateChild(p, sup, "brutal")}
	})
	assert.Nil(t, out[0])
	assert.GreaterOrEqual(t, out[1].(time.Duration), 100*time.Millisecond)
	assert.Nil(t, out[2])

	assert.False(t, n.IsProcessAlive(pids["stubborn"]))
	assert.False(t, n.IsProcessAlive(pids["brutal"]))
	expectNothing(t, events)
}

func TestSupervisorSimpleOneForOne(t *testing.T) {
	n := startTestNode(t, "t_sup_sofo@localhost")
	events := make(chan childEvent, 10)

	spec := SupervisorSpec{
		Type: SupervisorTypeSimpleOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "w", SupervisorStrategyTransient),
		},
	}
	sup, err := n.Spawn(factoryTestSup, gen.ProcessOptions{}, spec)
	require.NoError(t, err)
	expectNothing(t, events)

	out := call(t, n, func(p gen.Process) []any {
		w1, err1 := SupervisorStartChild(p, sup, "w")
		w2, err2 := SupervisorStartChild(p, sup, "w", events, gen.Atom("w2"))
		_, err3 := SupervisorRestartChild(p, sup, "w")
		_, err4 := SupervisorStartChild(p, sup, "x")
		return []any{w1, err1, w2, err2, err3, err4}
	})
	require.NoError(t, errorOf(out[1]))
	require.NoError(t, errorOf(out[3]))
	assert.Equal(t, gen.ErrUnsupported, out[4])
	assert.Equal(t, ErrSupervisorChildUnknown, out[5])
	w1 := out[0].(gen.PID)
	w2 := out[2].(gen.PID)
	started := waitStarted(t, events, "w", "w2")
	assert.Equal(t, w1, started["w"])
	assert.Equal(t, w2, started["w2"])

	// crashed instance is restarted with its own args, stopped one is removed
	require.NoError(t, n.Send(w2, "crash"))
	w2 = waitStarted(t, events, "w2")["w2"]
	require.NoError(t, n.Send(w1, "stop"))

	var children []SupervisorChild
	for i := 0; i < 50; i++ {
		out := call(t, n, func(p gen.Process) []any {
			children, _ := SupervisorChildren(p, sup)
			return []any{children}
		})
		children = out[0].([]SupervisorChild)
		if len(children) == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.Len(t, children, 1)
	assert.Equal(t, w2, children[0].PID)

	out = call(t, n, func(p gen.Process) []any {
		err := SupervisorTerminateChild(p, sup, "w")
		children, _ := SupervisorChildren(p, sup)
		return []any{err, len(children)}
	})
	assert.Equal(t, []any{nil, 0}, out)
	assert.False(t, n.IsProcessAlive(w2))
}

func TestSupervisorParentExit(t *testing.T) {
	n := startTestNode(t, "t_sup_parent@localhost")
	events := make(chan childEvent, 10)
	reasons := make(chan error, 1)

	spec := SupervisorSpec{
		Type: SupervisorTypeOneForOne,
		Children: []SupervisorChildSpec{
			workerSpec(events, "a", SupervisorStrategyPermanent),
		},
	}
	parent, err := n.SpawnFunc(func(p gen.Process, args ...any) error {
		_, err := p.SpawnLink(factoryTestSup, gen.ProcessOptions{
			OnTerminate: func(pid gen.PID, reason error) {
				reasons <- reason
			},
		}, spec)
		if err != nil {
			return err
		}
		p.Receive()
		return errBoom
	}, gen.ProcessOptions{})
	require.NoError(t, err)
	child := waitStarted(t, events, "a")["a"]

	require.NoError(t, n.Send(parent, "crash"))
	assert.Equal(t, errBoom, waitFor(t, reasons))
	assert.False(t, n.IsProcessAlive(child))
	expectNothing(t, events)
}

func TestSupervisorInitError(t *testing.T) {
	n := startTestNode(t, "t_sup_init@localhost")
	reasons := make(chan error, 1)

	_, err := n.Spawn(factoryTestSup, gen.ProcessOptions{
		OnTerminate: func(pid gen.PID, reason error) {
			reasons <- reason
		},
	}, SupervisorSpec{})
	require.NoError(t, err)
	assert.Error(t, waitFor(t, reasons))
}

func errorOf(v any) error {
	err, _ := v.(error)
	return err
}
