// Package events publishes server-side operational events (device
// locked, firmware published, sync completed) for ops tooling. Device
// telemetry never flows through here; sync stays batch and pull-based.
package events

import (
	"encoding/json"

	"clinic-device-backend/internal/logger"
	pkgmqtt "clinic-device-backend/pkg/mqtt"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(event string, payload any)
}

// NewNoop returns a publisher that drops everything; used when no
// broker is configured.
func NewNoop() Publisher {
	return noopPublisher{}
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

type MQTTPublisher struct {
	client *pkgmqtt.Client
	prefix string
}

func NewMQTTPublisher(client *pkgmqtt.Client, topicPrefix string) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: topicPrefix}
}

// Publish is fire-and-forget: a broker outage must never fail the
// request that produced the event.
func (p *MQTTPublisher) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event payload",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	topic := p.prefix + "/" + event
	if err := p.client.Publish(topic, 0, data); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}
