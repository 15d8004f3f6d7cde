package main

import (
	"time"

	"github.com/snowdamiz/meshrt/act"
	"github.com/snowdamiz/meshrt/gen"
)

const tickPeriod = time.Second

//
// demo supervision tree: a counter and a ticker feeding it
//

func factoryDemoSup() gen.ProcessBehavior {
	return &demoSup{}
}

type demoSup struct {
	act.Supervisor
}

func (s *demoSup) Init(args ...any) (act.SupervisorSpec, error) {
	return act.SupervisorSpec{
		Type: act.SupervisorTypeRestForOne,
		Children: []act.SupervisorChildSpec{
			{
				Name:    "counter",
				Factory: factoryCounter,
				Restart: act.SupervisorStrategyPermanent,
			},
			{
				Name:    "ticker",
				Factory: factoryTicker,
				Args:    []any{gen.Atom("counter")},
				Restart: act.SupervisorStrategyPermanent,
			},
		},
		Restart: act.SupervisorRestart{
			Intensity: 3,
			Period:    10,
		},
	}, nil
}

type messageTick struct{}

type requestCount struct{}

type castIncrement struct{}

func factoryCounter() gen.ProcessBehavior {
	return &counter{}
}

type counter struct {
	act.Service

	value int
}

func (c *counter) Init(args ...any) error {
	c.Log().Info("counter started")
	return nil
}

func (c *counter) HandleCast(from gen.PID, message any) error {
	if _, ok := message.(castIncrement); ok {
		c.value++
	}
	return nil
}

func (c *counter) HandleCall(from gen.PID, ref gen.Ref, request any) (any, error) {
	switch request.(type) {
	case requestCount:
		return c.value, nil
	}
	return nil, gen.ErrUnsupported
}

func factoryTicker() gen.ProcessBehavior {
	return &ticker{}
}

type ticker struct {
	act.Service

	target gen.Atom
	ticks  int
}

func (t *ticker) Init(args ...any) error {
	t.target = args[0].(gen.Atom)
	_, err := t.SendAfter(t.PID(), messageTick{}, tickPeriod)
	return err
}

func (t *ticker) HandleMessage(from gen.PID, message any) error {
	if _, ok := message.(messageTick); ok == false {
		return nil
	}
	if err := t.Cast(t.target, castIncrement{}); err != nil {
		return err
	}
	t.ticks++
	if t.ticks%10 == 0 {
		value, err := t.Call(t.target, requestCount{})
		if err != nil {
			return err
		}
		t.Log().Info("counter %s: %v", t.target, value)
	}
	_, err := t.SendAfter(t.PID(), messageTick{}, tickPeriod)
	return err
}
