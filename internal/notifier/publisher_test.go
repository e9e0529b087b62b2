package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:     "o-1",
		Total:  350,
		Status: domain.StatusNew,
		Items: []domain.OrderItem{
			{ProductID: "p-1", ProductName: "Mug", UnitPrice: 100, Quantity: 2},
			{ProductID: "p-2", ProductName: "Hoodie", UnitPrice: 50, Quantity: 3, Color: "Graphite", Size: "M"},
		},
		Contact: domain.ContactInfo{Name: "Anna", Phone: "+70000000000", Method: "telegram", TelegramHandle: "@anna"},
	}
}

func TestOrderPlaced_PublishesEvent(t *testing.T) {
	w := &mockWriter{}
	p := &Publisher{writer: w, timeout: time.Second}

	require.NoError(t, p.OrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("o-1"), w.messages[0].Key)

	var event OrderPlacedEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &event))
	assert.Equal(t, "o-1", event.OrderID)
	assert.Equal(t, 350.0, event.Total)
	assert.Len(t, event.Items, 2)
	assert.Contains(t, event.Summary, "Mug")
}

func TestOrderPlaced_WriterErrorPropagates(t *testing.T) {
	w := &mockWriter{err: fmt.Errorf("broker unavailable")}
	p := &Publisher{writer: w, timeout: time.Second}

	err := p.OrderPlaced(context.Background(), sampleOrder())
	assert.ErrorContains(t, err, "broker unavailable")
}

func TestSummary_RendersItemsAndContact(t *testing.T) {
	s := Summary(sampleOrder())

	assert.Contains(t, s, "New order o-1")
	assert.Contains(t, s, "- Mug x2 = 200.00")
	assert.Contains(t, s, "- Hoodie (Graphite), size M x3 = 150.00")
	assert.Contains(t, s, "Total: 350.00")
	assert.Contains(t, s, "tg: @anna")
}
