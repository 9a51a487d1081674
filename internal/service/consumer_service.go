package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/entity"
	"turbo-notes-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NoteActivityMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal activity message: %v", err)
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry := &entity.ActivityLog{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		NoteId:    payload.NoteId,
		Action:    payload.Action,
		Metadata:  payload.Detail,
		CreatedAt: time.Now(),
	}

	if err := uow.ActivityLogRepository().Create(ctx, entry); err != nil {
		log.Printf("[ERROR] Failed to record activity %s for user %s: %v", payload.Action, payload.UserId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
