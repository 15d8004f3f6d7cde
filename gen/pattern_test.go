package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testPing struct {
	N int
}

func TestMatchPatterns(t *testing.T) {
	pid := PID{Node: "test@localhost", ID: 1001}
	ref := Ref{Node: "test@localhost", ID: 7}

	regular := &MailboxMessage{From: pid, Message: testPing{N: 1}}
	response := &MailboxMessage{From: pid, Ref: ref, Type: MailboxMessageTypeResponse, Message: 1}
	down := &MailboxMessage{Message: MessageDownPID{Ref: ref, PID: pid, Reason: TerminateReasonNoProc}}
	exit := &MailboxMessage{Message: MessageExitPID{PID: pid, Reason: errors.New("boom")}}

	// no patterns match anything
	assert.Equal(t, 0, MatchPatterns(response, nil))

	assert.Equal(t, 0, MatchPatterns(regular, []Pattern{MatchAny()}))
	assert.Equal(t, -1, MatchPatterns(response, []Pattern{MatchAny()}))

	assert.Equal(t, 1, MatchPatterns(regular, []Pattern{MatchType[string](), MatchType[testPing]()}))
	assert.Equal(t, 0, MatchPatterns(regular, []Pattern{MatchValue(testPing{N: 1})}))
	assert.Equal(t, -1, MatchPatterns(regular, []Pattern{MatchValue(testPing{N: 2})}))

	even := MatchFunc(func(p testPing) bool { return p.N%2 == 0 })
	assert.Equal(t, -1, MatchPatterns(regular, []Pattern{even}))

	assert.Equal(t, 0, MatchPatterns(regular, []Pattern{MatchFrom(pid)}))
	assert.Equal(t, -1, MatchPatterns(regular, []Pattern{MatchFrom(PID{})}))

	assert.Equal(t, 0, MatchPatterns(response, MatchResponse(ref)))
	assert.Equal(t, -1, MatchPatterns(response, MatchResponse(Ref{ID: 8})))
	response.Type = MailboxMessageTypeResponseError
	assert.Equal(t, 1, MatchPatterns(response, MatchResponse(ref)))

	assert.Equal(t, 0, MatchPatterns(down, []Pattern{MatchDown(ref)}))
	assert.Equal(t, -1, MatchPatterns(down, []Pattern{MatchExit(pid)}))
	assert.Equal(t, 0, MatchPatterns(exit, []Pattern{MatchExit(pid)}))
}

func TestExitReasons(t *testing.T) {
	assert.True(t, IsNormalExit(nil))
	assert.True(t, IsNormalExit(TerminateReasonNormal))
	assert.False(t, IsNormalExit(TerminateReasonShutdown))

	assert.True(t, IsShutdownExit(TerminateReasonShutdown))
	assert.True(t, IsShutdownExit(nil))
	assert.False(t, IsShutdownExit(TerminateReasonKill))
	assert.False(t, IsShutdownExit(errors.New("boom")))
}

func TestEnvString(t *testing.T) {
	assert.Equal(t, "MY_VAR", Env("my_var").String())
	assert.Equal(t, "localhost", Atom("node@localhost").Host())
	assert.Equal(t, "", Atom("node").Host())
}
