package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/dine24/dine24-api/internal/repository"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromReservation(t *testing.T) {
	evt := FromReservation(&models.Reservation{
		ID:          "r-1",
		TableNumber: "W1",
		TotalAmount: 413,
		Items: []models.ReservationItem{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 5, Quantity: 1},
		},
	})

	assert.Equal(t, "r-1", evt.ReservationID)
	assert.Equal(t, []ItemCount{{1, 2}, {5, 1}}, evt.Items)
}

func TestInline_AppliesStats(t *testing.T) {
	store := repository.NewSeededInMemoryStore()
	ctx := context.Background()
	before, err := store.GetMenuItem(ctx, 1)
	require.NoError(t, err)

	pub := NewInline(NewStatsUpdater(store))
	err = pub.PublishConfirmed(ctx, ReservationConfirmed{
		ReservationID: "r-1",
		Items:         []ItemCount{{MenuItemID: 1, Quantity: 3}, {MenuItemID: 999, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrMenuItemNotFound))

	after, err := store.GetMenuItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before.OrdersPlaced+3, after.OrdersPlaced)
}

func TestKafkaPublisher_PublishConfirmed(t *testing.T) {
	w := &fakeWriter{}
	pub := NewKafkaPublisher(w)

	err := pub.PublishConfirmed(context.Background(), ReservationConfirmed{ReservationID: "r-9", Items: []ItemCount{{4, 2}}})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "r-9", string(w.msgs[0].Key))

	var decoded ReservationConfirmed
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, []ItemCount{{4, 2}}, decoded.Items)

	w.err = errors.New("broker down")
	err = pub.PublishConfirmed(context.Background(), ReservationConfirmed{ReservationID: "r-10"})
	assert.ErrorContains(t, err, "broker down")
}

func TestConsumer_Run(t *testing.T) {
	store := repository.NewSeededInMemoryStore()
	ctx := context.Background()
	before, _ := store.GetMenuItem(ctx, 8)

	payload, _ := json.Marshal(ReservationConfirmed{ReservationID: "r-1", Items: []ItemCount{{8, 4}}})
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 10, Value: []byte("not json")},
		{Offset: 11, Value: payload},
	}}

	c := NewConsumer(reader, NewStatsUpdater(store), quietLogger())
	err := c.Run(ctx)
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, []int64{10, 11}, reader.committed)
	after, _ := store.GetMenuItem(ctx, 8)
	assert.Equal(t, before.OrdersPlaced+4, after.OrdersPlaced)
}

func TestNewWriter_DefaultsTopic(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "")
	assert.Equal(t, TopicReservationConfirmed, w.Topic)
}
