package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"goodvibes-bot/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConversation struct {
	mu       sync.Mutex
	received []telegram.Update
}

func (r *recordingConversation) HandleUpdate(_ context.Context, upd *telegram.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, *upd)
}

func (r *recordingConversation) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.received))
	for _, upd := range r.received {
		out = append(out, upd.Text())
	}
	return out
}

func publishUpdate(t *testing.T, bus *gochannel.GoChannel, topic string, upd telegram.Update) {
	t.Helper()
	payload, err := json.Marshal(upd)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)))
}

func TestConsumerDeliversUpdatesInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	conv := &recordingConversation{}
	consumer := NewUpdateConsumerService(bus, "telegram.updates", conv, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	for i := 1; i <= 5; i++ {
		publishUpdate(t, bus, "telegram.updates", telegram.Update{
			UpdateID: int64(i),
			Message: &telegram.Message{
				From: &telegram.User{ID: 7},
				Chat: telegram.Chat{ID: 7},
				Text: fmt.Sprintf("msg-%d", i),
			},
		})
	}

	require.Eventually(t, func() bool {
		return len(conv.texts()) == 5
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"msg-1", "msg-2", "msg-3", "msg-4", "msg-5"}, conv.texts())
}

func TestConsumerDropsMalformedPayloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	conv := &recordingConversation{}
	consumer := NewUpdateConsumerService(bus, "telegram.updates", conv, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	require.NoError(t, bus.Publish("telegram.updates",
		message.NewMessage(watermill.NewUUID(), []byte("{not json"))))
	// An update without a sender is dropped too.
	publishUpdate(t, bus, "telegram.updates", telegram.Update{UpdateID: 2})
	publishUpdate(t, bus, "telegram.updates", telegram.Update{
		UpdateID: 3,
		Message: &telegram.Message{
			From: &telegram.User{ID: 7},
			Chat: telegram.Chat{ID: 7},
			Text: "valid",
		},
	})

	require.Eventually(t, func() bool {
		return len(conv.texts()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"valid"}, conv.texts())
}
