package volumectl

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/jfreymuth/pulse/proto"

	"github.com/MixyLabs/volume-ctl/pkg/volumectl/pulse"
)

// fakeServer stands in for a sound server with one default sink and source
type fakeServer struct {
	lock sync.Mutex

	sinkVolumes   proto.ChannelVolumes
	sinkMute      bool
	sourceVolumes proto.ChannelVolumes
	sourceMute    bool

	requests []string

	failDial     error
	failRequests map[string]error
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		sinkVolumes:   proto.ChannelVolumes{percent(50), percent(50)},
		sourceVolumes: proto.ChannelVolumes{percent(80)},
		failRequests:  map[string]error{},
	}
}

func percent(p float64) uint32 {
	return uint32(PercentageToVolume(p))
}

func (s *fakeServer) dial(string) (pulse.Requester, io.Closer, error) {
	if s.failDial != nil {
		return nil, nil, s.failDial
	}

	return s, io.NopCloser(nil), nil
}

func (s *fakeServer) Request(req proto.RequestArgs, rpl proto.Reply) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	name := fmt.Sprintf("%T", req)
	s.requests = append(s.requests, name)

	if err, ok := s.failRequests[name]; ok {
		return err
	}

	switch req := req.(type) {
	case *proto.SetClientName:
	case *proto.GetServerInfo:
		rpl.(*proto.GetServerInfoReply).PackageName = "fake"

	case *proto.GetSinkInfo:
		if req.SinkName != pulse.DefaultSink {
			return errors.New("no such entity")
		}
		reply := rpl.(*proto.GetSinkInfoReply)
		reply.SinkName = "speakers"
		reply.ChannelVolumes = append(proto.ChannelVolumes{}, s.sinkVolumes...)
		reply.Mute = s.sinkMute

	case *proto.GetSourceInfo:
		if req.SourceName != pulse.DefaultSource {
			return errors.New("no such entity")
		}
		reply := rpl.(*proto.GetSourceInfoReply)
		reply.SourceName = "mic"
		reply.ChannelVolumes = append(proto.ChannelVolumes{}, s.sourceVolumes...)
		reply.Mute = s.sourceMute

	case *proto.SetSinkVolume:
		s.sinkVolumes = req.ChannelVolumes
	case *proto.SetSourceVolume:
		s.sourceVolumes = req.ChannelVolumes
	case *proto.SetSinkMute:
		s.sinkMute = req.Mute
	case *proto.SetSourceMute:
		s.sourceMute = req.Mute

	default:
		return fmt.Errorf("unexpected request %s", name)
	}

	return nil
}

// busCall records one D-Bus method call
type busCall struct {
	method string
	args   []interface{}
}

type fakeBus struct {
	calls []busCall
	err   error

	// runs before every call is recorded
	onCall func()
}

func (b *fakeBus) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	if b.onCall != nil {
		b.onCall()
	}

	b.calls = append(b.calls, busCall{method: method, args: args})

	if b.err != nil {
		return &dbus.Call{Err: b.err}
	}

	return &dbus.Call{Body: []interface{}{uint32(len(b.calls))}}
}
