package gen

import (
	"reflect"
)

// Pattern selects messages in Process.Receive. A message matches the pattern if
// its mailbox type equals Type and Match (if defined) returns true.
// Patterns are tried in the given order against every queued message, the
// first message (in arrival order) matching any of them is taken.
type Pattern struct {
	Type  MailboxMessageType
	Match func(message *MailboxMessage) bool
}

func (p Pattern) matches(m *MailboxMessage) bool {
	if m.Type != p.Type {
		return false
	}
	if p.Match == nil {
		return true
	}
	return p.Match(m)
}

// MatchPatterns returns the index of the first pattern matching the message or -1.
// Empty list of patterns matches any message.
func MatchPatterns(m *MailboxMessage, patterns []Pattern) int {
	if len(patterns) == 0 {
		return 0
	}
	for i := range patterns {
		if patterns[i].matches(m) {
			return i
		}
	}
	return -1
}

// MatchAny matches any regular message
func MatchAny() Pattern {
	return Pattern{Type: MailboxMessageTypeRegular}
}

// MatchType matches a regular message of the type T
func MatchType[T any]() Pattern {
	return Pattern{
		Type: MailboxMessageTypeRegular,
		Match: func(m *MailboxMessage) bool {
			_, ok := m.Message.(T)
			return ok
		},
	}
}

// MatchFunc matches a regular message of the type T for which the predicate returns true
func MatchFunc[T any](predicate func(T) bool) Pattern {
	return Pattern{
		Type: MailboxMessageTypeRegular,
		Match: func(m *MailboxMessage) bool {
			v, ok := m.Message.(T)
			if ok == false {
				return false
			}
			return predicate(v)
		},
	}
}

// MatchValue matches a regular message equal to the given value
func MatchValue(value any) Pattern {
	return Pattern{
		Type: MailboxMessageTypeRegular,
		Match: func(m *MailboxMessage) bool {
			return reflect.DeepEqual(m.Message, value)
		},
	}
}

// MatchFrom matches a regular message sent by the given process
func MatchFrom(pid PID) Pattern {
	return Pattern{
		Type: MailboxMessageTypeRegular,
		Match: func(m *MailboxMessage) bool {
			return m.From == pid
		},
	}
}

// MatchExit matches the exit signal (trapped) of the given process
func MatchExit(pid PID) Pattern {
	return MatchFunc(func(exit MessageExitPID) bool {
		return exit.PID == pid
	})
}

// MatchDown matches the down notification of the given monitor
func MatchDown(ref Ref) Pattern {
	return MatchFunc(func(down MessageDownPID) bool {
		return down.Ref == ref
	})
}

// MatchResponse matches the response (or error response) for the given request reference
func MatchResponse(ref Ref) []Pattern {
	f := func(m *MailboxMessage) bool {
		return m.Ref == ref
	}
	return []Pattern{
		{Type: MailboxMessageTypeResponse, Match: f},
		{Type: MailboxMessageTypeResponseError, Match: f},
	}
}
