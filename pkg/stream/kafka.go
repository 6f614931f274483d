package stream

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/cuemby/venice-admin-consumer/pkg/log"
)

// KafkaStream consumes the admin topic's single partition via sarama,
// matching the spec's assumption that the admin log is one append-only
// partition (spec.md §1).
type KafkaStream struct {
	consumer  sarama.Consumer
	topic     string
	partition int32
}

// NewKafkaStream dials brokers and wraps a sarama.Consumer over topic's
// single partition.
func NewKafkaStream(brokers []string, topic string) (*KafkaStream, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial kafka brokers: %w", err)
	}

	return &KafkaStream{consumer: consumer, topic: topic, partition: 0}, nil
}

func (k *KafkaStream) ReadFrom(ctx context.Context, offset int64) (<-chan Record, error) {
	pc, err := k.consumer.ConsumePartition(k.topic, k.partition, offset)
	if err != nil {
		return nil, fmt.Errorf("consume partition %s/%d at offset %d: %w", k.topic, k.partition, offset, err)
	}

	out := make(chan Record)
	go func() {
		defer close(out)
		defer pc.Close()

		logger := log.WithComponent("stream.kafka")
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pc.Messages():
				if !ok {
					return
				}
				select {
				case out <- Record{Offset: msg.Offset, Value: msg.Value}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-pc.Errors():
				if !ok {
					continue
				}
				logger.Error().Err(err).Msg("kafka partition consumer error")
			}
		}
	}()

	return out, nil
}

func (k *KafkaStream) Close() error {
	return k.consumer.Close()
}
