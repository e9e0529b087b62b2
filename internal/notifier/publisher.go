package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

const orderTopic = "order-notifications"

// OrderPlacedEvent is the payload the support-chat relay consumes. Summary
// is a ready-to-send human-readable rendering of the order.
type OrderPlacedEvent struct {
	OrderID   string             `json:"order_id"`
	SessionID string             `json:"session_id"`
	Items     []domain.OrderItem `json:"items"`
	Total     float64            `json:"total"`
	Contact   domain.ContactInfo `json:"contact"`
	Summary   string             `json:"summary"`
	PlacedAt  time.Time          `json:"placed_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher relays order summaries to the notification topic. Delivery is
// best-effort; callers decide what a failed publish means (order placement
// swallows it).
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w, timeout: 5 * time.Second}
}

func (p *Publisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	event := OrderPlacedEvent{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		Items:     order.Items,
		Total:     order.Total,
		Contact:   order.Contact,
		Summary:   Summary(order),
		PlacedAt:  time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}

// Summary renders an order the way the support chat expects it.
func Summary(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s", item.ProductName)
		if item.Color != "" {
			fmt.Fprintf(&b, " (%s)", item.Color)
		}
		if item.Size != "" {
			fmt.Fprintf(&b, ", size %s", item.Size)
		}
		fmt.Fprintf(&b, " x%d = %.2f\n", item.Quantity, item.Subtotal())
	}
	fmt.Fprintf(&b, "Total: %.2f\n", order.Total)
	fmt.Fprintf(&b, "Customer: %s, %s", order.Contact.Name, order.Contact.Phone)
	if order.Contact.Method == "telegram" && order.Contact.TelegramHandle != "" {
		fmt.Fprintf(&b, ", tg: %s", order.Contact.TelegramHandle)
	}
	return b.String()
}
