package node

import (
	"runtime"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/snowdamiz/meshrt/gen"
)

//
// log records of the node and its processes are queued and delivered to the
// loggers by a single goroutine, so the loggers don't need to be thread-safe
//

func (n *node) LoggerAdd(name string, behavior gen.LoggerBehavior, filter ...gen.LogLevel) error {
	if name == "" || behavior == nil {
		return gen.ErrIncorrect
	}
	if len(filter) == 0 {
		filter = gen.DefaultLogFilter
	}
	l := &logger{
		behavior: behavior,
		filter:   mapset.NewSet(filter...),
	}
	if _, exist := n.loggers.LoadOrStore(name, l); exist {
		return gen.ErrTaken
	}
	return nil
}

func (n *node) LoggerDelete(name string) {
	v, exist := n.loggers.LoadAndDelete(name)
	if exist == false {
		return
	}
	v.(*logger).behavior.Terminate()
}

func (n *node) dolog(message gen.MessageLog, name string) {
	n.logQueue.Push(logRecord{message: message, logger: name})
	if n.logQueue.Lock() {
		go n.drainLog()
	}
}

func (n *node) drainLog() {
	for {
		for {
			r, ok := n.logQueue.Pop()
			if ok == false {
				break
			}
			n.deliverLog(r)
		}

		n.logQueue.Unlock()
		if n.logQueue.Len() == 0 {
			return
		}
		// someone has pushed a record right after the last Pop
		if n.logQueue.Lock() == false {
			return
		}
	}
}

func (n *node) deliverLog(r logRecord) {
	if r.logger != "" {
		if v, exist := n.loggers.Load(r.logger); exist {
			l := v.(*logger)
			if l.filter.Contains(r.message.Level) {
				l.behavior.Log(r.message)
			}
		}
		return
	}

	n.loggers.Range(func(_, v any) bool {
		l := v.(*logger)
		if l.filter.Contains(r.message.Level) {
			l.behavior.Log(r.message)
		}
		return true
	})
}

// stopLoggers flushes the queued records and terminates the loggers
func (n *node) stopLoggers() {
	for {
		if n.logQueue.Lock() {
			for {
				r, ok := n.logQueue.Pop()
				if ok == false {
					break
				}
				n.deliverLog(r)
			}
			n.logQueue.Unlock()
			break
		}
		// drained by the other goroutine at the moment
		runtime.Gosched()
	}

	n.loggers.Range(func(k, v any) bool {
		n.loggers.Delete(k)
		v.(*logger).behavior.Terminate()
		return true
	})
}
