// Package events publishes reservation lifecycle events and applies them to
// the menu's order statistics.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/segmentio/kafka-go"
)

const TopicReservationConfirmed = "reservation.confirmed"

// ItemCount is a menu item and how many were ordered
type ItemCount struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

// ReservationConfirmed is emitted once a reservation and its items are stored
type ReservationConfirmed struct {
	ReservationID string      `json:"reservation_id"`
	TableNumber   string      `json:"table_number"`
	Total         int64       `json:"total"`
	Items         []ItemCount `json:"items"`
	ConfirmedAt   time.Time   `json:"confirmed_at"`
}

// FromReservation builds the event for a stored reservation
func FromReservation(res *models.Reservation) ReservationConfirmed {
	evt := ReservationConfirmed{
		ReservationID: res.ID,
		TableNumber:   res.TableNumber,
		Total:         res.TotalAmount,
		Items:         make([]ItemCount, 0, len(res.Items)),
		ConfirmedAt:   res.CreatedAt,
	}
	for _, it := range res.Items {
		evt.Items = append(evt.Items, ItemCount{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}
	return evt
}

// Publisher emits reservation events
type Publisher interface {
	PublishConfirmed(ctx context.Context, evt ReservationConfirmed) error
}

// OrderCounter is the part of the menu store the stats updater needs
type OrderCounter interface {
	IncrementOrdersPlaced(ctx context.Context, id int64, by int) error
}

// StatsUpdater adds ordered quantities to each menu item's lifetime count
type StatsUpdater struct {
	counter OrderCounter
}

func NewStatsUpdater(counter OrderCounter) *StatsUpdater {
	return &StatsUpdater{counter: counter}
}

// Apply increments orders_placed for every item in evt. It keeps going after a
// failed item and returns all failures joined.
func (u *StatsUpdater) Apply(ctx context.Context, evt ReservationConfirmed) error {
	var errs []error
	for _, it := range evt.Items {
		if it.Quantity <= 0 {
			continue
		}
		if err := u.counter.IncrementOrdersPlaced(ctx, it.MenuItemID, it.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("menu item %d: %w", it.MenuItemID, err))
		}
	}
	return errors.Join(errs...)
}

// Inline applies events in-process, used when no broker is configured
type Inline struct {
	stats *StatsUpdater
}

func NewInline(stats *StatsUpdater) *Inline {
	return &Inline{stats: stats}
}

func (p *Inline) PublishConfirmed(ctx context.Context, evt ReservationConfirmed) error {
	return p.stats.Apply(ctx, evt)
}

// MessageWriter is satisfied by *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes events to a Kafka topic keyed by reservation id
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// NewWriter creates a writer for the reservation topic
func NewWriter(brokers []string, topic string) *kafka.Writer {
	if topic == "" {
		topic = TopicReservationConfirmed
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (p *KafkaPublisher) PublishConfirmed(ctx context.Context, evt ReservationConfirmed) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ReservationID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", TopicReservationConfirmed, err)
	}
	return nil
}

// MessageReader is satisfied by *kafka.Reader
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer reads confirmed reservations and updates order statistics
type Consumer struct {
	Reader MessageReader
	Stats  *StatsUpdater
	logger *slog.Logger
}

func NewConsumer(reader MessageReader, stats *StatsUpdater, logger *slog.Logger) *Consumer {
	return &Consumer{Reader: reader, Stats: stats, logger: logger}
}

// Run consumes until ctx is done. Malformed messages are logged and committed
// so they do not block the partition.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("starting order stats consumer")
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		c.Handle(ctx, msg)

		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

// Handle applies a single message
func (c *Consumer) Handle(ctx context.Context, msg kafka.Message) {
	var evt ReservationConfirmed
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		c.logger.Warn("skipping malformed event", "offset", msg.Offset, "error", err)
		return
	}

	if err := c.Stats.Apply(ctx, evt); err != nil {
		c.logger.Error("failed to update order stats", "reservation_id", evt.ReservationID, "error", err)
		return
	}
	c.logger.Debug("order stats updated", "reservation_id", evt.ReservationID, "items", len(evt.Items))
}
