package pulse

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jfreymuth/pulse/proto"
)

var errNoEntity = errors.New("no such entity")

type fakeDevice struct {
	index   uint32
	volumes proto.ChannelVolumes
	mute    bool
}

// fakeServer answers the handful of requests the Introspector sends
type fakeServer struct {
	lock sync.Mutex

	clientName string
	sinks      map[string]*fakeDevice
	sources    map[string]*fakeDevice
	requests   []string
	closed     bool

	rejectClientName bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		sinks: map[string]*fakeDevice{
			DefaultSink: {index: 1, volumes: proto.ChannelVolumes{0x8000, 0x8000}},
		},
		sources: map[string]*fakeDevice{
			DefaultSource: {index: 2, volumes: proto.ChannelVolumes{0x10000}, mute: true},
		},
	}
}

func (s *fakeServer) dial(string) (Requester, io.Closer, error) {
	return s, s, nil
}

func (s *fakeServer) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closed = true
	return nil
}

func (s *fakeServer) Request(req proto.RequestArgs, rpl proto.Reply) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.requests = append(s.requests, fmt.Sprintf("%T", req))

	switch req := req.(type) {
	case *proto.SetClientName:
		if s.rejectClientName {
			return errors.New("access denied")
		}
		s.clientName = req.Props["application.name"].String()
		rpl.(*proto.SetClientNameReply).ClientIndex = 7

	case *proto.GetServerInfo:
		info := rpl.(*proto.GetServerInfoReply)
		info.PackageName = "fake-pulse"
		info.PackageVersion = "1.0"
		info.DefaultSinkName = "speakers"
		info.DefaultSourceName = "mic"

	case *proto.GetSinkInfo:
		dev, ok := s.sinks[req.SinkName]
		if !ok {
			return errNoEntity
		}
		info := rpl.(*proto.GetSinkInfoReply)
		info.SinkIndex = dev.index
		info.SinkName = req.SinkName
		info.ChannelVolumes = append(proto.ChannelVolumes{}, dev.volumes...)
		info.Mute = dev.mute

	case *proto.GetSourceInfo:
		dev, ok := s.sources[req.SourceName]
		if !ok {
			return errNoEntity
		}
		info := rpl.(*proto.GetSourceInfoReply)
		info.SourceIndex = dev.index
		info.SourceName = req.SourceName
		info.ChannelVolumes = append(proto.ChannelVolumes{}, dev.volumes...)
		info.Mute = dev.mute

	case *proto.SetSinkVolume:
		dev, ok := s.sinks[req.SinkName]
		if !ok {
			return errNoEntity
		}
		dev.volumes = req.ChannelVolumes

	case *proto.SetSourceVolume:
		dev, ok := s.sources[req.SourceName]
		if !ok {
			return errNoEntity
		}
		dev.volumes = req.ChannelVolumes

	case *proto.SetSinkMute:
		dev, ok := s.sinks[req.SinkName]
		if !ok {
			return errNoEntity
		}
		dev.mute = req.Mute

	case *proto.SetSourceMute:
		dev, ok := s.sources[req.SourceName]
		if !ok {
			return errNoEntity
		}
		dev.mute = req.Mute

	default:
		return fmt.Errorf("unexpected request %T", req)
	}

	return nil
}
