// Package events publishes order lifecycle events to Kafka. A nil
// Publisher is valid and drops everything, so the stream stays optional.
package events

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

const (
	topicOrders = "orders"

	// publish runs in the request path; a dead broker must not hold a
	// checkout response hostage.
	publishTimeout = 2 * time.Second
)

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisherFromEnv returns a publisher when KAFKA_BROKERS is set and
// nil otherwise.
func NewPublisherFromEnv() *Publisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}

	addrs := strings.Split(brokers, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(addrs...),
			Topic:                  topicOrders,
			Balancer:               &kafka.CRC32Balancer{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           publishTimeout,
		},
	}
}

type orderEvent struct {
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	UserID        uint      `json:"user_id"`
	Status        int       `json:"status"`
	PaymentStatus *int      `json:"payment_status,omitempty"`
	Total         float64   `json:"total"`
	At            time.Time `json:"at"`
}

// OrderCreated publishes a creation event for a freshly checked-out order.
func (p *Publisher) OrderCreated(ctx context.Context, order *models.Order) {
	if p == nil {
		return
	}
	p.publish(ctx, orderEvent{
		Type:    "order.created",
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  int(order.Status),
		Total:   order.Total(),
		At:      time.Now(),
	})
}

// PaymentUpdated publishes a bank payment status transition.
func (p *Publisher) PaymentUpdated(ctx context.Context, order *models.Order, status models.OrderPaymentStatus) {
	if p == nil {
		return
	}
	s := int(status)
	p.publish(ctx, orderEvent{
		Type:          "order.payment_updated",
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        int(order.Status),
		PaymentStatus: &s,
		Total:         order.Total(),
		At:            time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, event orderEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: value,
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		// Event delivery is best-effort; the order itself is already
		// committed.
		log.Warn().Err(err).Uint("order_id", event.OrderID).Str("type", event.Type).Msg("failed to publish order event")
	}
}

// Close flushes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
