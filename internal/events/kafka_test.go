package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwarderPublishesEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var envelope map[string]interface{}
		if err := json.Unmarshal(val, &envelope); err != nil {
			return err
		}
		if envelope["type"] != TopicBannerApproved || envelope["key"] != "req-1" {
			return errors.New("unexpected envelope")
		}
		payload, _ := envelope["payload"].(map[string]interface{})
		if payload["title"] != "Book Fair" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	pub := NewPublisherFromProducer(producer)
	defer pub.Close()

	handler := Forwarder(pub, "universe.events")
	err := handler(context.Background(), Event{
		Topic:   TopicBannerApproved,
		Key:     "req-1",
		UserID:  "user-1",
		Payload: BannerPayload{ID: "req-1", Title: "Book Fair", Status: "approved"},
	})
	require.NoError(t, err)
}

func TestForwarderReportsBrokerFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewPublisherFromProducer(producer)
	defer pub.Close()

	err := Forwarder(pub, "universe.events")(context.Background(), Event{Topic: TopicBannerExpired, Key: "req-2"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestPublishRejectsEmptyTopicAndCanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewPublisherFromProducer(producer)
	defer pub.Close()

	_, err := pub.Publish(context.Background(), Message{Topic: "  "})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pub.Publish(ctx, Message{Topic: "universe.events"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSaramaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewSaramaPublisher(PublisherConfig{})
	assert.Error(t, err)
}
