package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter часть *kafka.Writer, которая нужна для публикации
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishTimeout ограничивает публикацию одного события
const publishTimeout = 2 * time.Second

// KafkaNotifier публикует события в топик в формате JSON
type KafkaNotifier struct {
	writer MessageWriter
	logger *zap.Logger
}

func NewKafkaNotifier(writer MessageWriter, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: writer,
		logger: logger,
	}
}

// NewKafkaWriter создаёт асинхронный writer: запрос не ждёт брокер, ошибки доставки
// логируются в Completion. События одного блока или серии попадают
// в одну партицию, поэтому порядок по ключу сохраняется.
func NewKafkaWriter(brokers []string, topic string, logger *zap.Logger) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("Failed to deliver events",
					zap.Error(err),
					zap.Int("messages", len(messages)),
				)
			}
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error(fmt.Sprintf(msg, args...), zap.String("component", "kafka"))
		}),
	}, nil
}

// partitionKey ключ сообщения: серия, затем блок, иначе ID события
func partitionKey(event model.Event) string {
	switch {
	case event.BaseID != 0:
		return "series-" + strconv.FormatInt(event.BaseID, 10)
	case event.BlockID != 0:
		return "block-" + strconv.FormatInt(event.BlockID, 10)
	default:
		return event.ID.String()
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event model.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to encode event", zap.Error(err), zap.String("event_type", string(event.Type)))
		return
	}

	// Отмена запроса не должна обрывать публикацию уже совершённого действия
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(partitionKey(event)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		n.logger.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID.String()),
		)
	}
}

// Close дожидается отправки буферизованных сообщений
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
