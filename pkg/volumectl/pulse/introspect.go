package pulse

import (
	"github.com/jfreymuth/pulse/proto"
)

// names the server resolves to whatever device is currently the default
const (
	DefaultSink   = "@DEFAULT_SINK@"
	DefaultSource = "@DEFAULT_SOURCE@"
)

// Volume is a channel volume in the server's native unit
type Volume uint32

const (
	VolumeMuted Volume = 0
	VolumeNorm  Volume = 0x10000
)

// ChannelVolumes holds one volume per channel of a device
type ChannelVolumes []Volume

// Max returns the loudest channel, or VolumeMuted when there are no channels
func (cv ChannelVolumes) Max() Volume {
	loudest := VolumeMuted
	for _, v := range cv {
		if v > loudest {
			loudest = v
		}
	}

	return loudest
}

func channelVolumesFromProto(volumes proto.ChannelVolumes) ChannelVolumes {
	channels := make(ChannelVolumes, len(volumes))
	for i, v := range volumes {
		channels[i] = Volume(v)
	}

	return channels
}

func (cv ChannelVolumes) toProto() proto.ChannelVolumes {
	volumes := make(proto.ChannelVolumes, len(cv))
	for i, v := range cv {
		volumes[i] = uint32(v)
	}

	return volumes
}

// ListResult tags each invocation of an info callback
type ListResult int

const (
	ListItem ListResult = iota
	ListEnd
	ListError
)

// DeviceInfo is the subset of sink/source info we care about
type DeviceInfo struct {
	Index       uint32
	Name        string
	Description string
	Volume      ChannelVolumes
	Mute        bool
}

// Introspector issues device queries and mutations on a Context.
// Every callback runs on the main loop goroutine.
type Introspector struct {
	ctx *Context
}

// GetSinkInfoByName looks up a sink. cb gets ListItem followed by ListEnd, or a single ListError.
func (i *Introspector) GetSinkInfoByName(name string, cb func(ListResult, *DeviceInfo)) {
	request := &proto.GetSinkInfo{SinkIndex: proto.Undefined, SinkName: name}
	reply := &proto.GetSinkInfoReply{}

	i.ctx.submit(request, reply, func(err error) {
		if err != nil {
			cb(ListError, nil)
			return
		}

		cb(ListItem, &DeviceInfo{
			Index:       reply.SinkIndex,
			Name:        reply.SinkName,
			Description: description(reply.Properties),
			Volume:      channelVolumesFromProto(reply.ChannelVolumes),
			Mute:        reply.Mute,
		})
		cb(ListEnd, nil)
	})
}

// GetSourceInfoByName looks up a source, see GetSinkInfoByName
func (i *Introspector) GetSourceInfoByName(name string, cb func(ListResult, *DeviceInfo)) {
	request := &proto.GetSourceInfo{SourceIndex: proto.Undefined, SourceName: name}
	reply := &proto.GetSourceInfoReply{}

	i.ctx.submit(request, reply, func(err error) {
		if err != nil {
			cb(ListError, nil)
			return
		}

		cb(ListItem, &DeviceInfo{
			Index:       reply.SourceIndex,
			Name:        reply.SourceName,
			Description: description(reply.Properties),
			Volume:      channelVolumesFromProto(reply.ChannelVolumes),
			Mute:        reply.Mute,
		})
		cb(ListEnd, nil)
	})
}

// SetSinkVolumeByName replaces the channel volumes of a sink
func (i *Introspector) SetSinkVolumeByName(name string, volumes ChannelVolumes, cb func(success bool)) {
	request := &proto.SetSinkVolume{
		SinkIndex:      proto.Undefined,
		SinkName:       name,
		ChannelVolumes: volumes.toProto(),
	}

	i.ctx.submit(request, nil, successCallback(cb))
}

// SetSourceVolumeByName replaces the channel volumes of a source
func (i *Introspector) SetSourceVolumeByName(name string, volumes ChannelVolumes, cb func(success bool)) {
	request := &proto.SetSourceVolume{
		SourceIndex:    proto.Undefined,
		SourceName:     name,
		ChannelVolumes: volumes.toProto(),
	}

	i.ctx.submit(request, nil, successCallback(cb))
}

// SetSinkMuteByName mutes or unmutes a sink
func (i *Introspector) SetSinkMuteByName(name string, mute bool, cb func(success bool)) {
	request := &proto.SetSinkMute{
		SinkIndex: proto.Undefined,
		SinkName:  name,
		Mute:      mute,
	}

	i.ctx.submit(request, nil, successCallback(cb))
}

// SetSourceMuteByName mutes or unmutes a source
func (i *Introspector) SetSourceMuteByName(name string, mute bool, cb func(success bool)) {
	request := &proto.SetSourceMute{
		SourceIndex: proto.Undefined,
		SourceName:  name,
		Mute:        mute,
	}

	i.ctx.submit(request, nil, successCallback(cb))
}

func successCallback(cb func(success bool)) func(err error) {
	return func(err error) {
		if cb != nil {
			cb(err == nil)
		}
	}
}

func description(props proto.PropList) string {
	if desc, ok := props["device.description"]; ok {
		return desc.String()
	}

	return ""
}
