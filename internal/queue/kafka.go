package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"

	"github.com/contentpipe/contentpipe/internal/model"
)

var _ ExtractionQueue = (*KafkaQueue)(nil)

// KafkaQueue publishes extraction requests to a kafka topic.
type KafkaQueue struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaQueue(brokers string) (*KafkaQueue, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	q := &KafkaQueue{
		producer: producer,
		topic:    SourceExtractTopic,
	}

	// log delivery failures, the reaper job eventually fails the source
	go func() {
		for e := range producer.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logrus.Errorf("extraction request delivery failed: %v", m.TopicPartition.Error)
			}
		}
	}()

	return q, nil
}

func (q *KafkaQueue) PublishExtractionRequest(ctx context.Context, source *model.Source) error {
	payload, err := json.Marshal(&ExtractionRequest{
		SourceID:     source.ID,
		ProjectID:    source.ProjectID,
		SourceType:   source.SourceType,
		OriginalPath: source.OriginalPath,
	})
	if err != nil {
		return err
	}

	return q.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &q.topic, Partition: kafka.PartitionAny},
		Key:            []byte(source.ID),
		Value:          payload,
	}, nil)
}

func (q *KafkaQueue) Close() {
	q.producer.Flush(5000)
	q.producer.Close()
}
