package bridge

import (
	"strings"
	"sync"
)

// State is the lifecycle position of a Call.
type State int

const (
	// StateIdle: socket accepted, vendor session not configured yet.
	StateIdle State = iota
	// StateConnected: session.update sent, waiting for the stream start.
	StateConnected
	// StateActive: audio flows both ways.
	StateActive
	// StateAwaitingToolResult: a function call is being executed.
	StateAwaitingToolResult
	// StateClosed: both sockets are closed.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnected:
		return "connected"
	case StateActive:
		return "active"
	case StateAwaitingToolResult:
		return "awaiting_tool_result"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Call is the state of one bridged phone call. The two forwarding loops
// share it; every field is guarded by mu.
type Call struct {
	mu         sync.Mutex
	state      State
	streamSid  string
	responseID string
	responding bool
	transcript strings.Builder
	toolCalls  int
}

// NewCall returns a call in StateIdle.
func NewCall() *Call { return &Call{} }

func (c *Call) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// setState moves to s unless the call is already closed.
func (c *Call) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		c.state = s
	}
}

func (c *Call) close() {
	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
}

func (c *Call) StreamSid() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streamSid
}

func (c *Call) start(sid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamSid = sid
	if c.state != StateClosed {
		c.state = StateActive
	}
}

func (c *Call) responseCreated(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseID = id
	c.responding = true
	c.transcript.Reset()
}

func (c *Call) responseFinished() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseID = ""
	c.responding = false
}

// Responding reports whether the assistant is mid-response.
func (c *Call) Responding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responding
}

func (c *Call) appendTranscript(s string) {
	c.mu.Lock()
	c.transcript.WriteString(s)
	c.mu.Unlock()
}

// takeTranscript returns and clears the assistant transcript so far.
func (c *Call) takeTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.transcript.String()
	c.transcript.Reset()
	return s
}

func (c *Call) countToolCall() {
	c.mu.Lock()
	c.toolCalls++
	c.mu.Unlock()
}

// ToolCalls is the number of functions executed so far.
func (c *Call) ToolCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toolCalls
}
