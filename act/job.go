package act

import (
	"time"

	"github.com/snowdamiz/meshrt/gen"
)

// JobFunc is the computation of the job. It runs in the job process, so it may
// use any blocking operation of gen.Process. Non-nil error terminates the job
// with this reason.
type JobFunc func(job gen.Process) (any, error)

// Job is an asynchronous computation running in its own process. The job is
// linked with the process that started it: if the owner terminates, the job
// is terminated as well. A crashed job terminates the owner unless it traps
// exits. In that case JobAwait returns the crash reason.
type Job struct {
	PID gen.PID

	owner   gen.PID
	ref     gen.Ref
	monitor gen.Ref
}

// JobResult is the outcome of a job started by JobMap
type JobResult struct {
	Value any
	Err   error
}

type jobStart struct{}

// JobAsync spawns the job process running fn
func JobAsync(process gen.Process, fn JobFunc) (Job, error) {
	var job Job

	if fn == nil {
		return job, gen.ErrIncorrect
	}

	owner := process.PID()
	ref := process.Node().MakeRef()

	pid, err := process.SpawnFuncLink(func(p gen.Process, args ...any) error {
		// the owner must be monitoring this process before the result is sent
		if _, err := p.Receive(gen.MatchType[jobStart]()); err != nil {
			return err
		}
		value, err := fn(p)
		if err != nil {
			return err
		}
		return p.SendResponse(owner, ref, value)
	}, gen.ProcessOptions{})
	if err != nil {
		return job, err
	}

	job.PID = pid
	job.owner = owner
	job.ref = ref
	if job.monitor, err = process.Monitor(pid); err != nil {
		return job, err
	}
	if err := process.Send(pid, jobStart{}); err != nil {
		return job, err
	}
	return job, nil
}

// JobAwait waits for the result of the job
func JobAwait(process gen.Process, job Job) (any, error) {
	return jobAwait(process, job, -1)
}

// JobAwaitTimeout waits for the result of the job up to the given timeout.
// Returns gen.ErrTimeout if the job is still running, the job is not
// terminated then and can be awaited again.
func JobAwaitTimeout(process gen.Process, job Job, timeout time.Duration) (any, error) {
	if timeout < 0 {
		timeout = 0
	}
	return jobAwait(process, job, timeout)
}

func jobAwait(process gen.Process, job Job, timeout time.Duration) (any, error) {
	if job.owner != process.PID() {
		return nil, gen.ErrNotAllowed
	}

	patterns := []gen.Pattern{
		{
			Type:  gen.MailboxMessageTypeResponse,
			Match: func(m *gen.MailboxMessage) bool { return m.Ref == job.ref },
		},
		gen.MatchDown(job.monitor),
	}

	var m gen.Received
	var err error
	if timeout < 0 {
		m, err = process.Receive(patterns...)
	} else {
		m, err = process.ReceiveTimeout(timeout, patterns...)
	}
	if err != nil {
		return nil, err
	}

	var value any
	switch m.Type {
	case gen.MailboxMessageTypeResponse:
		value = m.Message
		// the job exits right after the response
		if _, err := process.Receive(gen.MatchDown(job.monitor)); err != nil {
			return nil, err
		}

	default:
		down := m.Message.(gen.MessageDownPID)
		err = down.Reason
		if down.Reason == gen.TerminateReasonNormal {
			// has gone without a result
			err = gen.ErrProcessTerminated
		}
	}

	// the down notification comes after the exit signal, so the trapped one
	// is in the mailbox already
	if process.TrapExit() {
		process.ReceiveTimeout(0, gen.MatchExit(job.PID))
	}
	return value, err
}

// JobMap runs fn for every item in its own job and returns the results in
// the order of the items
func JobMap[T any](process gen.Process, items []T, fn func(job gen.Process, item T) (any, error)) ([]JobResult, error) {
	jobs := make([]Job, 0, len(items))
	for _, item := range items {
		item := item
		job, err := JobAsync(process, func(p gen.Process) (any, error) {
			return fn(p, item)
		})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	results := make([]JobResult, len(jobs))
	for i, job := range jobs {
		value, err := JobAwait(process, job)
		results[i] = JobResult{Value: value, Err: err}
	}
	return results, nil
}
