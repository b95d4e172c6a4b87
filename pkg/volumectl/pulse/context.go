package pulse

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

// State is the connection state of a Context
type State int

const (
	Unconnected State = iota
	Connecting
	Authorizing
	SettingName
	Ready
	Failed
	Terminated
)

// size of the request queue feeding the connection worker
const requestQueueSize = 16

var (
	// ErrNotConnected is recorded when a request is issued on a context that isn't ready
	ErrNotConnected = errors.New("not connected to sound server")

	// ErrUnknown is what Errno reports when the server never told us anything
	ErrUnknown = errors.New("unknown sound server error")
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connecting:
		return "connecting"
	case Authorizing:
		return "authorizing"
	case SettingName:
		return "setting-name"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether a connection attempt can't make any more progress from s
func (s State) IsTerminal() bool {
	switch s {
	case Ready, Failed, Unconnected, Terminated:
		return true
	default:
		return false
	}
}

// Requester performs one synchronous request against the sound server.
// *proto.Client implements it.
type Requester interface {
	Request(req proto.RequestArgs, rpl proto.Reply) error
}

// DialFunc opens a connection to the server at the given address ("" picks the default)
type DialFunc func(server string) (Requester, io.Closer, error)

// ContextOption customizes a Context
type ContextOption func(*Context)

// WithDialer replaces the function used to reach the sound server
func WithDialer(dial DialFunc) ContextOption {
	return func(c *Context) {
		c.dial = dial
	}
}

// Context is a single connection to the sound server. State transitions and
// request completions are reported through the main loop.
type Context struct {
	logger *zap.SugaredLogger
	loop   *Mainloop
	name   string
	dial   DialFunc

	lock  sync.Mutex
	state State
	errno error

	conn     io.Closer
	requests chan func(Requester)
	done     chan struct{}

	disconnectOnce sync.Once
}

// NewContext creates an unconnected context that identifies itself to the server as name
func NewContext(logger *zap.SugaredLogger, loop *Mainloop, name string, options ...ContextOption) *Context {
	c := &Context{
		logger: logger.Named("pulse"),
		loop:   loop,
		name:   name,
		dial:   dialProto,
		state:  Unconnected,
	}

	for _, option := range options {
		option(c)
	}

	c.logger.Debugw("Created context", "clientName", name)

	return c
}

func dialProto(server string) (Requester, io.Closer, error) {
	client, conn, err := proto.Connect(server)
	if err != nil {
		return nil, nil, err
	}

	return client, conn, nil
}

// Connect starts connecting in the background. Progress is only observable
// by iterating the main loop and checking State.
func (c *Context) Connect(server string) error {
	if state := c.State(); state != Unconnected {
		return fmt.Errorf("connect: context already in state %s", state)
	}

	c.setState(Connecting)
	go c.handshake(server)

	return nil
}

func (c *Context) handshake(server string) {
	client, conn, err := c.dial(server)
	if err != nil {
		c.loop.post(func() {
			c.fail(fmt.Errorf("dial sound server: %w", err))
		})
		return
	}

	// proto.Connect covers both the socket and the auth exchange
	c.loop.post(func() { c.setState(Authorizing) })
	c.loop.post(func() { c.setState(SettingName) })

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString(c.name),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		_ = conn.Close()
		c.loop.post(func() {
			c.fail(fmt.Errorf("set client name: %w", err))
		})
		return
	}

	requests := make(chan func(Requester), requestQueueSize)
	done := make(chan struct{})

	ok := c.loop.post(func() {
		c.lock.Lock()
		c.conn = conn
		c.requests = requests
		c.done = done
		c.lock.Unlock()

		go serve(client, requests, done)

		c.logger.Debugw("Registered with sound server", "clientIndex", reply.ClientIndex)
		c.setState(Ready)
	})
	if !ok {
		_ = conn.Close()
	}
}

// serve executes queued requests one after the other, which keeps
// completions in the order they were issued
func serve(client Requester, requests <-chan func(Requester), done chan<- struct{}) {
	defer close(done)

	for job := range requests {
		job(client)
	}
}

// State returns the current connection state
func (c *Context) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.state
}

// Errno returns the last error reported for this context
func (c *Context) Errno() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.errno == nil {
		return ErrUnknown
	}

	return c.errno
}

// Introspect gives access to device queries and mutations
func (c *Context) Introspect() *Introspector {
	return &Introspector{ctx: c}
}

// Disconnect closes the server connection and waits for the worker to stop
func (c *Context) Disconnect() {
	c.disconnectOnce.Do(func() {
		c.lock.Lock()
		requests, conn, done := c.requests, c.conn, c.done
		c.requests = nil
		c.lock.Unlock()

		if requests == nil {
			return
		}

		close(requests)

		if err := conn.Close(); err != nil {
			c.logger.Debugw("Failed to close sound server connection", "error", err)
		}

		<-done

		c.setState(Terminated)
		c.logger.Debug("Disconnected from sound server")
	})
}

func (c *Context) setState(state State) {
	c.lock.Lock()
	c.state = state
	c.lock.Unlock()

	c.logger.Debugw("Context state changed", "state", state)
}

func (c *Context) setErrno(err error) {
	c.lock.Lock()
	c.errno = err
	c.lock.Unlock()
}

func (c *Context) fail(err error) {
	c.setErrno(err)
	c.setState(Failed)
}

// submit hands one request to the connection worker; done runs on the loop
// goroutine once the server has answered
func (c *Context) submit(req proto.RequestArgs, rpl proto.Reply, done func(err error)) {
	c.lock.Lock()
	requests, state := c.requests, c.state
	c.lock.Unlock()

	if state != Ready || requests == nil {
		c.loop.post(func() {
			c.setErrno(ErrNotConnected)
			done(ErrNotConnected)
		})
		return
	}

	requests <- func(client Requester) {
		err := client.Request(req, rpl)

		c.loop.post(func() {
			if err != nil {
				c.setErrno(err)
			}
			done(err)
		})
	}
}

// ServerInfo describes the sound server we're talking to
type ServerInfo struct {
	PackageName       string
	PackageVersion    string
	DefaultSinkName   string
	DefaultSourceName string
}

// ServerInfo queries the server; cb receives nil on failure
func (c *Context) ServerInfo(cb func(info *ServerInfo)) {
	reply := &proto.GetServerInfoReply{}

	c.submit(&proto.GetServerInfo{}, reply, func(err error) {
		if err != nil {
			cb(nil)
			return
		}

		cb(&ServerInfo{
			PackageName:       reply.PackageName,
			PackageVersion:    reply.PackageVersion,
			DefaultSinkName:   reply.DefaultSinkName,
			DefaultSourceName: reply.DefaultSourceName,
		})
	})
}
