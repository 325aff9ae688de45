package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsqio/go-nsq"
	"go.uber.org/zap"
)

// NSQPublisher publishes JSON messages to a single NSQ topic.
type NSQPublisher struct {
	producer *nsq.Producer
	topic    string
}

// NewNSQPublisher connects a producer to nsqd and verifies the connection.
func NewNSQPublisher(address, topic string, logger *zap.Logger) (*NSQPublisher, error) {
	if topic == "" {
		return nil, fmt.Errorf("nsq topic is required")
	}
	config := nsq.NewConfig()
	if err := config.Set("heartbeat_interval", "10s"); err != nil {
		return nil, fmt.Errorf("configure nsq: %w", err)
	}
	producer, err := nsq.NewProducer(address, config)
	if err != nil {
		return nil, fmt.Errorf("create nsq producer: %w", err)
	}
	if logger != nil {
		producer.SetLogger(zapNSQLogger{logger: logger.Named("nsq")}, nsq.LogLevelWarning)
	}
	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("ping nsqd %s: %w", address, err)
	}
	return &NSQPublisher{producer: producer, topic: topic}, nil
}

// Publish marshals the message and publishes it synchronously.
func (p *NSQPublisher) Publish(ctx context.Context, message interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal nsq message: %w", err)
	}
	if err := p.producer.Publish(p.topic, body); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close stops the producer.
func (p *NSQPublisher) Close() {
	if p != nil && p.producer != nil {
		p.producer.Stop()
	}
}

type zapNSQLogger struct {
	logger *zap.Logger
}

func (l zapNSQLogger) Output(_ int, s string) error {
	l.logger.Warn(s)
	return nil
}
