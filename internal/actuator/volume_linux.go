package actuator

import (
	"fmt"
	"math"
	"net"

	"github.com/jfreymuth/pulse/proto"
)

// pulseMaxVolume is the PulseAudio volume for 100% (PA_VOLUME_NORM).
const pulseMaxVolume = 0x10000

// paVolume drives the default sink through the native PulseAudio
// protocol. The native scale is PulseAudio volume units, 0 to 0x10000.
type paVolume struct {
	client   *proto.Client
	conn     net.Conn
	sinkIdx  uint32
	channels byte
}

// NewVolume connects to PulseAudio and resolves the default sink.
func NewVolume() (Volume, error) {
	client, conn, err := proto.Connect("")
	if err != nil {
		return nil, fmt.Errorf("connect to PulseAudio: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString("handctl"),
		},
	}
	reply := proto.SetClientNameReply{}
	if err := client.Request(&request, &reply); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set client name: %w", err)
	}

	sinkRequest := proto.GetSinkInfo{SinkIndex: proto.Undefined}
	sinkReply := proto.GetSinkInfoReply{}
	if err := client.Request(&sinkRequest, &sinkReply); err != nil {
		conn.Close()
		return nil, fmt.Errorf("get default sink info: %w", err)
	}

	return &paVolume{
		client:   client,
		conn:     conn,
		sinkIdx:  sinkReply.SinkIndex,
		channels: sinkReply.Channels,
	}, nil
}

// Range reports the PulseAudio volume unit bounds.
func (v *paVolume) Range() (min, max float64) {
	return 0, pulseMaxVolume
}

// SetLevel applies the same volume to every channel of the sink.
func (v *paVolume) SetLevel(level float64) error {
	level = clampFloat(level, 0, pulseMaxVolume)

	volumes := make([]uint32, v.channels)
	for i := range volumes {
		volumes[i] = uint32(math.Round(level))
	}

	request := proto.SetSinkVolume{
		SinkIndex:      v.sinkIdx,
		ChannelVolumes: volumes,
	}
	if err := v.client.Request(&request, nil); err != nil {
		return fmt.Errorf("set sink volume: %w", err)
	}
	return nil
}

// Close drops the PulseAudio connection.
func (v *paVolume) Close() error {
	if err := v.conn.Close(); err != nil {
		return fmt.Errorf("close PulseAudio connection: %w", err)
	}
	return nil
}
