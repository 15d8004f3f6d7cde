package gen

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
)

// Atom is a name of the node or a registered process
type Atom string

// String
func (a Atom) String() string {
	return "'" + string(a) + "'"
}

// CRC32 returns a short representation of the Atom used in the textual
// form of PID and Ref
func (a Atom) CRC32() string {
	return fmt.Sprintf("%08X", crc32.Checksum([]byte(a), crc32.IEEETable))
}

// Host returns the part after '@' (if any)
func (a Atom) Host() string {
	s := strings.Split(string(a), "@")
	if len(s) != 2 {
		return ""
	}
	return s[1]
}

// PID is an identifier of the process. It is unique within the node and never reused:
// ID is taken from a monotonic counter and Creation is the start time of the node.
type PID struct {
	Node     Atom
	ID       uint64
	Creation int64
}

// String
func (p PID) String() string {
	return "<" + p.Node.CRC32() + "." + strconv.FormatUint(p.ID, 10) + "." + strconv.FormatInt(p.Creation%1000, 10) + ">"
}

// Ref is a unique reference. It is used for monitors and for the correlation of
// the call requests with their responses.
type Ref struct {
	Node     Atom
	Creation int64
	ID       uint64
}

// String
func (r Ref) String() string {
	return fmt.Sprintf("Ref#<%s.%d.%d>", r.Node.CRC32(), r.Creation%1000, r.ID)
}

// CancelFunc cancels a deferred action (SendAfter). Returns false if it has already fired.
type CancelFunc func() bool

// Env
type Env string

// String
func (e Env) String() string {
	return strings.ToUpper(string(e))
}
