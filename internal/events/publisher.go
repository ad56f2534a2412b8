package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/pkg/utils"

	"github.com/nats-io/nats.go"
)

const (
	SubjectOrderCreated = "orders.created"
	SubjectOrderPaid    = "orders.paid"
)

// OrderEvent is the payload published on both subjects.
type OrderEvent struct {
	OrderID       string               `json:"order_id"`
	Status        models.OrderStatus   `json:"status"`
	Source        models.OrderSource   `json:"source,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	PaymentID     string               `json:"payment_id,omitempty"`
	Total         float64              `json:"total"`
	ItemCount     int                  `json:"item_count"`
	OccurredAt    string               `json:"occurred_at"`
}

// OrderPublisher notifies other systems (kitchen printers, analytics) of order changes.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderPaid(ctx context.Context, order *models.Order) error
	Close()
}

// Connection is the slice of *nats.Conn the publisher needs.
type Connection interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	IsConnected() bool
	Close()
}

type NatsPublisher struct {
	nc       Connection
	attempts int
	backoff  time.Duration
}

// NewNatsPublisher dials url with a few retries.
func NewNatsPublisher(ctx context.Context, url string) (*NatsPublisher, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	for i := 0; i < 3; i++ {
		var nc *nats.Conn
		nc, err = nats.Connect(url,
			nats.Name("Foodtruck Backend"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				utils.LogWarn("NATS disconnected", map[string]interface{}{"error": fmt.Sprint(err)})
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				utils.LogInfo("NATS reconnected", map[string]interface{}{"url": nc.ConnectedUrl()})
			}),
		)
		if err == nil {
			utils.LogInfo("Connected to NATS", map[string]interface{}{"url": url})
			return NewPublisherWithConn(nc), nil
		}

		utils.LogWarn("Failed to connect to NATS", map[string]interface{}{"attempt": i + 1, "error": err.Error()})
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("failed to connect to NATS after retries: %w", err)
}

// NewPublisherWithConn wraps an established connection.
func NewPublisherWithConn(nc Connection) *NatsPublisher {
	return &NatsPublisher{nc: nc, attempts: 3, backoff: 500 * time.Millisecond}
}

func (p *NatsPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, SubjectOrderCreated, order)
}

func (p *NatsPublisher) PublishOrderPaid(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, SubjectOrderPaid, order)
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, order *models.Order) error {
	itemCount := 0
	for _, it := range order.Items {
		itemCount += it.Quantity
	}
	data, err := json.Marshal(OrderEvent{
		OrderID:       order.ID,
		Status:        order.Status,
		Source:        order.Source,
		PaymentMethod: order.PaymentMethod.Canonical(),
		PaymentID:     order.PaymentID(),
		Total:         order.Total,
		ItemCount:     itemCount,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var lastErr error
	for i := 0; i < p.attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = p.nc.Publish(subject, data); lastErr != nil {
			utils.LogWarn("Failed to publish to NATS", map[string]interface{}{"subject": subject, "attempt": i + 1, "error": lastErr.Error()})
			p.sleep(ctx)
			continue
		}
		if lastErr = p.nc.FlushTimeout(2 * time.Second); lastErr != nil {
			utils.LogWarn("Failed to flush NATS connection", map[string]interface{}{"subject": subject, "error": lastErr.Error()})
			continue
		}
		utils.LogDebug("Published order event", map[string]interface{}{"subject": subject, "order_id": order.ID})
		return nil
	}
	return fmt.Errorf("failed to publish %s after retries: %w", subject, lastErr)
}

func (p *NatsPublisher) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(p.backoff):
	}
}

func (p *NatsPublisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
		utils.LogInfo("NATS connection closed")
	}
}

// NoopPublisher is used when NATS_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *models.Order) error { return nil }
func (NoopPublisher) PublishOrderPaid(context.Context, *models.Order) error    { return nil }
func (NoopPublisher) Close()                                                   {}
