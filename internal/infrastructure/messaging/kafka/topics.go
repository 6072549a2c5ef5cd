package kafka

import (
	"context"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// TopicSpec describes a topic to create.
type TopicSpec struct {
	Name              string
	Partitions        int
	ReplicationFactor int
}

// EnsureTopic creates spec on the cluster controller unless it exists.
func EnsureTopic(ctx context.Context, broker string, spec TopicSpec, log logging.Logger) error {
	if spec.Partitions <= 0 {
		spec.Partitions = 3
	}
	if spec.ReplicationFactor <= 0 {
		spec.ReplicationFactor = 1
	}

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial kafka")
	}
	defer conn.Close()

	if parts, err := conn.ReadPartitions(spec.Name); err == nil && len(parts) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to find kafka controller")
	}
	cc, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to dial kafka controller")
	}
	defer cc.Close()

	err = cc.CreateTopics(kafka.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to create topic")
	}
	if log != nil {
		log.Info("kafka topic ready", logging.String("topic", spec.Name),
			logging.Int("partitions", spec.Partitions))
	}
	return nil
}

//Personal.AI order the ending
