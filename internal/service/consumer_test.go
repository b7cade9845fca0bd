package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardapio-virtual/internal/domain"
	"cardapio-virtual/internal/mocks"
)

// sliceReader replays messages and then reports the reader as closed.
type sliceReader struct {
	messages []kafka.Message
}

func (r *sliceReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	message := r.messages[0]
	r.messages = r.messages[1:]
	return message, nil
}

func eventMessage(t *testing.T, event domain.OrderEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestEventConsumer_Start(t *testing.T) {
	ranking := mocks.NewRanking(t)
	ranking.On("Increment", mock.Anything, 1, 2).Return(nil).Once()
	ranking.On("Increment", mock.Anything, 5, 1).Return(nil).Once()

	reader := &sliceReader{messages: []kafka.Message{
		eventMessage(t, domain.OrderEvent{
			Type:    domain.EventOrderPlaced,
			OrderID: 10,
			Items:   []domain.ItemQuantity{{ItemID: 1, Quantity: 2}, {ItemID: 5, Quantity: 1}},
		}),
		{Value: []byte("{not json")},
		eventMessage(t, domain.OrderEvent{
			Type:    domain.EventOrderStatusChanged,
			OrderID: 10,
			Items:   []domain.ItemQuantity{{ItemID: 1, Quantity: 2}},
		}),
	}}

	NewEventConsumer(reader, ranking, quietLogger()).Start(context.Background())

	ranking.AssertExpectations(t)
	assert.Empty(t, reader.messages)
}

func TestEventConsumer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &blockingReader{}
	done := make(chan struct{})
	go func() {
		NewEventConsumer(reader, mocks.NewRanking(t), quietLogger()).Start(ctx)
		close(done)
	}()
	<-done
}

type blockingReader struct{}

func (blockingReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

// flakyReader fails a fixed number of reads before reporting EOF.
type flakyReader struct {
	failures int
	reads    int
}

func (r *flakyReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.reads++
	if r.reads <= r.failures {
		return kafka.Message{}, errors.New("broker unavailable")
	}
	return kafka.Message{}, io.EOF
}

func TestEventConsumer_WaitsBetweenFailedReads(t *testing.T) {
	reader := &flakyReader{failures: 3}
	consumer := NewEventConsumer(reader, mocks.NewRanking(t), quietLogger())
	consumer.RetryDelay = 20 * time.Millisecond

	started := time.Now()
	consumer.Start(context.Background())

	assert.Equal(t, 4, reader.reads)
	assert.GreaterOrEqual(t, time.Since(started), 60*time.Millisecond)
}

func TestEventConsumer_CancelDuringRetryDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &flakyReader{failures: 100}
	consumer := NewEventConsumer(reader, mocks.NewRanking(t), quietLogger())
	consumer.RetryDelay = time.Hour

	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop while waiting to retry")
	}
	assert.Equal(t, 1, reader.reads)
}

func TestEventConsumer_ProcessEventCountsRemainingLines(t *testing.T) {
	ranking := mocks.NewRanking(t)
	ranking.On("Increment", mock.Anything, 1, 2).Return(assert.AnError).Once()
	ranking.On("Increment", mock.Anything, 5, 1).Return(nil).Once()

	NewEventConsumer(&sliceReader{}, ranking, quietLogger()).ProcessEvent(context.Background(), domain.OrderEvent{
		Type:    domain.EventOrderPlaced,
		OrderID: 11,
		Items:   []domain.ItemQuantity{{ItemID: 1, Quantity: 2}, {ItemID: 5, Quantity: 1}},
	})

	ranking.AssertExpectations(t)
}

func TestEventConsumer_IgnoresUpdatesAndDeletes(t *testing.T) {
	ranking := mocks.NewRanking(t)
	consumer := NewEventConsumer(&sliceReader{}, ranking, quietLogger())

	for _, eventType := range []string{domain.EventOrderUpdated, domain.EventOrderDeleted} {
		consumer.ProcessEvent(context.Background(), domain.OrderEvent{
			Type:    eventType,
			OrderID: 12,
			Items:   []domain.ItemQuantity{{ItemID: 1, Quantity: 3}},
		})
	}

	ranking.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
}
