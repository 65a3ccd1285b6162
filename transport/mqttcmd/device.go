package mqttcmd

import (
	"context"
	"encoding/binary"
	"math"
	"net"

	mqtt "github.com/soypat/natiu-mqtt"

	"motioncore/axes"
)

// StatusFrame is the binary status frame of spec.md §6.2: a 2-byte
// timestamp followed by 3×i32 actuator step positions (big-endian), then
// 3×i32 Cartesian positions (big-endian).
type StatusFrame struct {
	TimestampMS uint16
	Steps       axes.Steps
	Positions   axes.Positions
}

// Encode writes the frame into buf (must be at least 26 bytes:
// 2 + 3*4 + 3*4) and returns the number of bytes written.
func (f StatusFrame) Encode(buf []byte) int {
	binary.BigEndian.PutUint16(buf[0:2], f.TimestampMS)
	off := 2
	for i := 0; i < axes.MaxAxes; i++ {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(f.Steps.Get(i)))
		off += 4
	}
	for i := 0; i < axes.MaxAxes; i++ {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(int32(math.Round(float64(f.Positions.Get(i))*positionScaleUm))))
		off += 4
	}
	return off
}

// positionScaleUm converts a Cartesian position in millimetres into the
// micrometre-resolution fixed-point integer the status frame carries.
const positionScaleUm = 1000

// DevicePublisher publishes StatusFrame snapshots over MQTT using
// natiu-mqtt's allocation-light client, for TinyGo targets too
// resource-constrained for the full paho stack.
type DevicePublisher struct {
	client      *mqtt.Client
	statusTopic string
	buf         [26]byte
}

// NewDevicePublisher wraps conn (an already-dialled MQTT broker TCP
// connection) in a natiu-mqtt client and performs the CONNECT handshake.
func NewDevicePublisher(ctx context.Context, conn net.Conn, clientID, statusTopic string) (*DevicePublisher, error) {
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 512)},
	})

	err := client.Connect(ctx, conn, &mqtt.Connect{
		ClientID:     []byte(clientID),
		Protocol:     4,
		KeepAlive:    60,
		CleanSession: true,
	})
	if err != nil {
		return nil, err
	}

	return &DevicePublisher{client: client, statusTopic: statusTopic}, nil
}

// PublishStatus encodes and publishes one status frame at QoS 0 — the
// only quality of service level that avoids allocating a retransmission
// buffer, matching this path's no-allocation discipline as closely as the
// MQTT protocol allows on a device.
func (p *DevicePublisher) PublishStatus(frame StatusFrame) error {
	n := frame.Encode(p.buf[:])
	return p.client.PublishQoS0(mqtt.Header{
		QoS:   mqtt.QoS0,
		Topic: p.statusTopic,
	}, p.buf[:n])
}
