package act

import (
	"errors"

	"github.com/snowdamiz/meshrt/gen"
)

// ServiceBehavior interface
type ServiceBehavior interface {
	gen.ProcessBehavior

	// Init invoked on a spawn Service for the initializing.
	Init(args ...any) error

	// HandleCall invoked if Service got a synchronous request made with gen.Process.Call(...).
	// Return nil as a result to handle this request asynchronously and
	// to provide the result later using the gen.Process.SendResponse(...) method.
	// Non-nil error terminates the process (the result, if any, is sent before).
	HandleCall(from gen.PID, ref gen.Ref, request any) (any, error)

	// HandleCast invoked if Service got an asynchronous request made with gen.Process.Cast(...).
	// Non-nil value of the returning error will cause termination of this process.
	HandleCast(from gen.PID, message any) error

	// HandleMessage invoked if Service received a message sent with gen.Process.Send(...).
	// Non-nil value of the returning error will cause termination of this process.
	// To stop this process normally, return gen.TerminateReasonNormal
	// or any other for abnormal termination.
	HandleMessage(from gen.PID, message any) error

	// Terminate invoked on a termination process
	Terminate(reason error)
}

// Service implements ProcessBehavior interface and serves the requests one
// at a time. All callbacks of the ServiceBehavior except Init are optional
// for the implementation.
type Service struct {
	gen.Process

	behavior ServiceBehavior
}

//
// ProcessBehavior implementation
//

// ProcessInit
func (s *Service) ProcessInit(process gen.Process, args ...any) error {
	var ok bool

	if s.behavior, ok = process.Behavior().(ServiceBehavior); ok == false {
		return errors.New("ProcessInit: not a ServiceBehavior")
	}

	s.Process = process
	return s.behavior.Init(args...)
}

func (s *Service) ProcessRun() error {
	for {
		message, err := s.Receive()
		if err != nil {
			return err
		}

		switch message.Type {
		case gen.MailboxMessageTypeRegular:
			if reason := s.behavior.HandleMessage(message.From, message.Message); reason != nil {
				return reason
			}

		case gen.MailboxMessageTypeCast:
			if reason := s.behavior.HandleCast(message.From, message.Message); reason != nil {
				return reason
			}

		case gen.MailboxMessageTypeRequest:
			result, reason := s.behavior.HandleCall(message.From, message.Ref, message.Message)

			if reason != nil {
				// if we got response - send it before termination
				if result != nil {
					s.SendResponse(message.From, message.Ref, result)
				}
				return reason
			}

			if result == nil {
				// async handling of sync request. response could be sent
				// later, even by the other process
				continue
			}

			s.SendResponse(message.From, message.Ref, result)

		default:
			// response that has arrived after the caller gave up
			s.Log().Trace("dropped late %s from %s", message.Type, message.From)
		}
	}
}

func (s *Service) ProcessTerminate(reason error) {
	if s.behavior == nil {
		// ProcessInit has failed
		return
	}
	s.behavior.Terminate(reason)
}

//
// default callbacks for ServiceBehavior interface
//

func (s *Service) HandleCall(from gen.PID, ref gen.Ref, request any) (any, error) {
	s.Log().Warning("Service.HandleCall: unhandled request from %s", from)
	return nil, nil
}

func (s *Service) HandleCast(from gen.PID, message any) error {
	s.Log().Warning("Service.HandleCast: unhandled message from %s", from)
	return nil
}

func (s *Service) HandleMessage(from gen.PID, message any) error {
	s.Log().Warning("Service.HandleMessage: unhandled message from %s", from)
	return nil
}

func (s *Service) Terminate(reason error) {}
