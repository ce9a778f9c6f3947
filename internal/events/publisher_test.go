package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declareErr error
	publishErr error
	exchange   string
	key        string
	msg        amqp.Publishing
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchange = name
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.key = key
	f.msg = msg
	return f.publishErr
}

func (f *fakeChannel) Close() error { f.closed = true; return nil }

type fakeConn struct{ closed bool }

func (f *fakeConn) Close() error { f.closed = true; return nil }

func restore() {
	jsonMarshal = json.Marshal
	amqpDial = func(url string) (amqpConn, amqpChannel, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return conn, ch, nil
	}
}

func stubDial(conn *fakeConn, ch *fakeChannel) {
	amqpDial = func(string) (amqpConn, amqpChannel, error) { return conn, ch, nil }
}

func TestNewPublisher(t *testing.T) {
	t.Cleanup(restore)

	p, err := NewPublisher("", "ex")
	require.NoError(t, err)
	require.IsType(t, NopPublisher{}, p)
	require.NoError(t, p.PublishJSON(context.Background(), "k", 1))
	require.NoError(t, p.Close())

	amqpDial = func(string) (amqpConn, amqpChannel, error) { return nil, nil, errors.New("refused") }
	_, err = NewPublisher("amqp://x", "ex")
	require.ErrorContains(t, err, "dial rabbitmq")

	conn, ch := &fakeConn{}, &fakeChannel{declareErr: errors.New("denied")}
	stubDial(conn, ch)
	_, err = NewPublisher("amqp://x", "ex")
	require.ErrorContains(t, err, "declare exchange")
	require.True(t, ch.closed)
	require.True(t, conn.closed)
}

func TestAMQPPublisher(t *testing.T) {
	t.Cleanup(restore)
	conn, ch := &fakeConn{}, &fakeChannel{}
	stubDial(conn, ch)

	p, err := NewAMQPPublisher("amqp://x", "vidly.events")
	require.NoError(t, err)
	require.Equal(t, "vidly.events", ch.exchange)

	require.NoError(t, p.PublishJSON(context.Background(), KeyRentalReturned, map[string]int{"n": 1}))
	require.Equal(t, KeyRentalReturned, ch.key)
	require.Equal(t, "application/json", ch.msg.ContentType)
	require.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	require.JSONEq(t, `{"n":1}`, string(ch.msg.Body))

	ch.publishErr = errors.New("closed")
	require.Error(t, p.PublishJSON(context.Background(), "k", 1))

	jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("json") }
	require.EqualError(t, p.PublishJSON(context.Background(), "k", 1), "json")

	require.NoError(t, p.Close())
	require.True(t, ch.closed)
	require.True(t, conn.closed)
	require.NoError(t, (&AMQPPublisher{}).Close())
}
