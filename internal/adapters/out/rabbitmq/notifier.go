package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos/internal/core/ports"
	"pos/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the topic exchange kitchen tickets are published to.
	ExchangeName = "kitchen_orders"

	publishTimeout = 5 * time.Second
)

// KitchenNotifier publishes fired-line tickets to a RabbitMQ topic
// exchange. Delivery is at-least-once; kitchen consumers deduplicate on
// line identity.
type KitchenNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// ticketMessage is the wire form of a kitchen ticket.
type ticketMessage struct {
	OrderID     string   `json:"order_id"`
	OrderNumber string   `json:"order_number"`
	TableID     string   `json:"table_id,omitempty"`
	LineIDs     []string `json:"line_ids"`
	Course      int      `json:"course"`
	FiredBy     string   `json:"fired_by"`
	FiredAt     string   `json:"fired_at"`
}

// NewKitchenNotifier dials the broker and declares the kitchen exchange.
func NewKitchenNotifier(url string) (*KitchenNotifier, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}

	return &KitchenNotifier{conn: conn, channel: channel}, nil
}

// NotifyFired publishes the ticket, routed by course so stations can bind
// to the courses they plate (kitchen.fired.1, kitchen.fired.2, ...).
func (n *KitchenNotifier) NotifyFired(ctx context.Context, ticket ports.KitchenTicket) error {
	message := ticketMessage{
		OrderID:     ticket.OrderID.String(),
		OrderNumber: ticket.OrderNumber,
		LineIDs:     make([]string, 0, len(ticket.LineIDs)),
		Course:      ticket.Course,
		FiredBy:     ticket.FiredBy.String(),
		FiredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if ticket.TableID != nil {
		message.TableID = ticket.TableID.String()
	}
	for _, lineID := range ticket.LineIDs {
		message.LineIDs = append(message.LineIDs, lineID.String())
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal kitchen ticket: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	routingKey := fmt.Sprintf("kitchen.fired.%d", ticket.Course)
	err = n.channel.PublishWithContext(publishCtx,
		ExchangeName, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish kitchen ticket: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (n *KitchenNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
