package service

import (
	"context"
	"encoding/json"
	"sync"

	"goodvibes-bot/internal/pkg/logger"
	"goodvibes-bot/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const userInboxSize = 16

// IUpdateConsumerService routes webhook updates from the event bus into the
// conversation service. One worker per user keeps each user's events in
// arrival order without letting a slow store call block everyone else.
type IUpdateConsumerService interface {
	Consume(ctx context.Context) error
}

type updateConsumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	conversation IConversationService
	logger       logger.ILogger

	mu      sync.Mutex
	inboxes map[int64]chan telegram.Update
}

func NewUpdateConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	conversation IConversationService,
	log logger.ILogger,
) IUpdateConsumerService {
	return &updateConsumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		conversation: conversation,
		logger:       log,
		inboxes:      make(map[int64]chan telegram.Update),
	}
}

func (s *updateConsumerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *updateConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var upd telegram.Update
	if err := json.Unmarshal(msg.Payload, &upd); err != nil {
		s.logger.Error("dispatcher", "failed to unmarshal update", map[string]interface{}{
			"error":          err.Error(),
			"correlation_id": msg.Metadata.Get("correlation_id"),
		})
		msg.Ack() // nothing to retry, the payload itself is broken
		return
	}

	userID := upd.FromID()
	if userID == 0 {
		s.logger.Warn("dispatcher", "update carries no user identity, dropping", map[string]interface{}{
			"update_id":      upd.UpdateID,
			"correlation_id": msg.Metadata.Get("correlation_id"),
		})
		msg.Ack()
		return
	}

	s.inbox(ctx, userID) <- upd
	msg.Ack()
}

// inbox returns the user's ordered delivery channel, spawning its worker on
// first contact.
func (s *updateConsumerService) inbox(ctx context.Context, userID int64) chan telegram.Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.inboxes[userID]; ok {
		return ch
	}

	ch := make(chan telegram.Update, userInboxSize)
	s.inboxes[userID] = ch
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-ch:
				s.conversation.HandleUpdate(ctx, &upd)
			}
		}
	}()
	return ch
}
