package event

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

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	var sent CatalogEvent
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "catalog" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "product_7" {
			return errors.New("unexpected key " + string(key))
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		return json.Unmarshal(value, &sent)
	})

	publisher := NewKafkaPublisherWithProducer(producer, "catalog")
	event := NewCatalogEvent(TypeProductDeleted, 7, 3)

	require.NoError(t, publisher.Publish(context.Background(), event))
	assert.Equal(t, event.EventID, sent.EventID)
	assert.Equal(t, TypeProductDeleted, sent.EventType)
	assert.Equal(t, uint(3), sent.MemberID)
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer producer.Close()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer, "catalog")
	err := publisher.Publish(context.Background(), NewCatalogEvent(TypeProductListed, 1, 1))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewCatalogEvent(TypeProductListed, 1, 1)))
	assert.NoError(t, p.Close())
}
