package gen

type MailboxMessageType int

const (
	MailboxMessageTypeRegular       MailboxMessageType = 0
	MailboxMessageTypeRequest       MailboxMessageType = 1
	MailboxMessageTypeCast          MailboxMessageType = 2
	MailboxMessageTypeResponse      MailboxMessageType = 3
	MailboxMessageTypeResponseError MailboxMessageType = 4
)

func (t MailboxMessageType) String() string {
	switch t {
	case MailboxMessageTypeRegular:
		return "regular"
	case MailboxMessageTypeRequest:
		return "request"
	case MailboxMessageTypeCast:
		return "cast"
	case MailboxMessageTypeResponse:
		return "response"
	case MailboxMessageTypeResponseError:
		return "response error"
	}
	return "unknown"
}

// MailboxMessage is an item of the process mailbox. Ref is set for the requests
// and responses only. Target keeps the value the sender used to address this
// process (PID or Atom).
type MailboxMessage struct {
	From    PID
	Ref     Ref
	Type    MailboxMessageType
	Target  any
	Message any
}

// Received is a result of the selective receive. Pattern is the index of the
// pattern that matched the message.
type Received struct {
	MailboxMessage
	Pattern int
}
