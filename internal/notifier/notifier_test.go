package notifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"foodspot/internal/notifier"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePublisher struct {
	queue string
	body  []byte
	err   error
}

func (f *fakePublisher) Publish(queue string, body []byte) error {
	f.queue = queue
	f.body = body
	return f.err
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

type recorder struct {
	mu   sync.Mutex
	msgs []notifier.Message
	err  error
}

func (r *recorder) Notify(_ context.Context, msg notifier.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func sample() notifier.Message {
	return notifier.Message{
		From:    "shop@example.com",
		To:      "alice@example.com",
		Subject: "Order Placed Successfully - FS-1",
		Body:    "Hi alice",
	}
}

func TestAMQP_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	n := notifier.NewAMQP(pub, "notification_queue")

	require.NoError(t, n.Notify(context.Background(), sample()))
	assert.Equal(t, "notification_queue", pub.queue)

	decoded, err := notifier.Decode(pub.body)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", decoded.To)
	assert.Equal(t, "Order Placed Successfully - FS-1", decoded.Subject)
	assert.False(t, decoded.SentAt.IsZero())
}

func TestAMQP_PublishError(t *testing.T) {
	n := notifier.NewAMQP(&fakePublisher{err: errors.New("channel closed")}, "q")

	err := n.Notify(context.Background(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestKafka_KeysByRecipient(t *testing.T) {
	w := &fakeWriter{}
	n := notifier.NewKafka(w)

	require.NoError(t, n.Notify(context.Background(), sample()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("alice@example.com"), w.msgs[0].Key)

	decoded, err := notifier.Decode(w.msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "Hi alice", decoded.Body)
}

func TestDecode_RejectsMissingRecipient(t *testing.T) {
	_, err := notifier.Decode([]byte(`{"subject":"x"}`))
	assert.Error(t, err)

	_, err = notifier.Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestDeliveryHandler(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recorder{}
	handle := notifier.DeliveryHandler(zap.New(core), sink)

	require.NoError(t, handle(amqp.Delivery{Body: []byte(`{"to":"bob@example.com","subject":"s","body":"b"}`)}))
	require.Len(t, sink.msgs, 1)
	assert.Equal(t, "bob@example.com", sink.msgs[0].To)

	// Malformed payloads are acknowledged and logged, never passed on.
	require.NoError(t, handle(amqp.Delivery{Body: []byte(`{`), DeliveryTag: 7}))
	assert.Len(t, sink.msgs, 1)
	assert.Equal(t, 1, logs.FilterMessage("dropping malformed notification").Len())
}

func TestAsync_LogsFailureAndReturnsNil(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	next := &recorder{err: errors.New("smtp down")}
	a := notifier.NewAsync(next, zap.New(core), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Notify(ctx, sample()))
	cancel()
	a.Wait()

	assert.Len(t, next.msgs, 1)
	entries := logs.FilterMessage("notification failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice@example.com", entries[0].ContextMap()["to"])
}

func TestLog_Notify(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := notifier.NewLog(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), sample()))
	assert.Equal(t, 1, logs.FilterMessage("notification").Len())
}
