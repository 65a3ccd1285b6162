// Package mqttcmd delivers MotionArgs commands over MQTT: a host-side
// subscriber built on the full paho client, and a device-side status
// publisher built on natiu-mqtt's allocation-light codec for targets too
// constrained to carry the paho client.
package mqttcmd

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"motioncore/axes"
	"motioncore/blockmanager"
	"motioncore/motionargs"
)

// CommandHandler receives one decoded motion command and applies it to a
// block manager, returning the return code and error the transport should
// report back (e.g. on a reply topic).
type CommandHandler func(motionargs.MotionArgs) (motionargs.RetCode, error)

// HostSubscriber subscribes to a motion-command topic on a paho MQTT
// client and decodes each message body into a MotionArgs dispatched to a
// block manager.
type HostSubscriber struct {
	client        mqtt.Client
	commandTopic  string
	maxUpsPerAxis axes.AxesValues[float64]
	handle        CommandHandler
}

// NewHostSubscriber connects to brokerURL and prepares (but does not yet
// start) a subscription. maxUpsPerAxis feeds ParseSpeed's percentage
// resolution.
func NewHostSubscriber(brokerURL, clientID, commandTopic string, maxUpsPerAxis axes.AxesValues[float64], handle CommandHandler) (*HostSubscriber, error) {
	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID(clientID).SetAutoReconnect(true)
	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqttcmd: connect %s: %w", brokerURL, token.Error())
	}

	return &HostSubscriber{
		client:        client,
		commandTopic:  commandTopic,
		maxUpsPerAxis: maxUpsPerAxis,
		handle:        handle,
	}, nil
}

// Start subscribes to the command topic at QoS 1 and begins dispatching
// decoded commands to the handler.
func (h *HostSubscriber) Start() error {
	token := h.client.Subscribe(h.commandTopic, 1, h.onMessage)
	token.Wait()
	return token.Error()
}

// Stop unsubscribes and disconnects cleanly.
func (h *HostSubscriber) Stop() {
	h.client.Unsubscribe(h.commandTopic)
	h.client.Disconnect(250)
}

func (h *HostSubscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	args, err := motionargs.DecodeCommand(msg.Payload(), h.maxUpsPerAxis)
	if err != nil {
		return
	}
	if h.handle != nil {
		h.handle(args)
	}
}

// BlockManagerHandler adapts a blockmanager.BlockManager into a
// CommandHandler, routing ramped vs non-ramped commands to the right
// entry point based on the decoded mode.
func BlockManagerHandler(bm *blockmanager.BlockManager) CommandHandler {
	return func(args motionargs.MotionArgs) (motionargs.RetCode, error) {
		if args.Mode.IsNoRamp() {
			return bm.AddNonRampedBlock(args)
		}
		return bm.AddRampedBlock(args)
	}
}
