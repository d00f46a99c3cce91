package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	publishQoS     = 1
	publishTimeout = 10 * time.Second
	disconnectWait = 250
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// MQTTPublisher publishes run summaries as JSON to a single topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// CreateMQTTClient connects to brokerURL with automatic reconnect.
func CreateMQTTClient(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(publishTimeout)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized")
	return client, nil
}

func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTPublisher{client: client, topic: topic}
}

func (p *MQTTPublisher) PublishRun(ctx context.Context, run RunSummary) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	token := p.client.Publish(p.topic, publishQoS, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	log.Debug().Str("topic", p.topic).Str("flow", run.Flow).Msg("published run summary")
	return nil
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(disconnectWait)
	log.Info().Msg("MQTT client disconnected")
}
