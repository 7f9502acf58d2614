package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

const TopicPictureFetched = "apod.fetched"

// KafkaPublisher emits an event for every successful upstream fetch so
// downstream consumers (analytics, prefetchers) can react to new pictures.
type KafkaPublisher struct {
	producer sarama.SyncProducer
}

func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return &KafkaPublisher{producer: producer}, nil
}

func (p *KafkaPublisher) PublishPictureFetched(ctx context.Context,
	picture *domain.Picture) error {

	event := map[string]interface{}{
		"event_type": "picture_fetched",
		"timestamp":  time.Now().UTC(),
		"data": map[string]interface{}{
			"date":       picture.Date,
			"title":      picture.Title,
			"media_type": picture.MediaType,
			"source":     picture.Source,
		},
	}

	return p.publish(TopicPictureFetched, picture.Date, event)
}

func (p *KafkaPublisher) publish(topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err = p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)
