package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_PublishChange(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "backoffice.records"}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := p.PublishChange(context.Background(), Change{Table: "menu_item", Action: ActionDelete, IDs: []int64{4, 5}, At: at})
	require.NoError(t, err)

	require.Len(t, ch.calls, 1)
	call := ch.calls[0]
	assert.Equal(t, "backoffice.records", call.exchange)
	assert.Equal(t, "menu_item.delete", call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var decoded Change
	require.NoError(t, json.Unmarshal(call.msg.Body, &decoded))
	assert.Equal(t, []int64{4, 5}, decoded.IDs)
	assert.True(t, at.Equal(decoded.At))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_WrapsErrors(t *testing.T) {
	p := &AMQPPublisher{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}

	err := p.PublishChange(context.Background(), Change{Table: "order1", Action: ActionUpdate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order1.update")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.PublishChange(context.Background(), Change{}))
}
