//go:build unit

package messaging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"car-rental-core/internal/infra/messaging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

var confirmed = messaging.Message{
	Key:     "6f1c1d1e-0000-4000-8000-000000000001",
	Kind:    "payment.confirmed",
	Topic:   "reservation-events",
	Payload: []byte(`{"reservation_id":"6f1c1d1e-0000-4000-8000-000000000001"}`),
}

func TestSQSPublisher_Publish(t *testing.T) {
	t.Run("success: body and attributes", func(t *testing.T) {
		client := &fakeSQS{}
		pub := messaging.NewSQSPublisher(client, "https://sqs.local/queue")

		require.NoError(t, pub.Publish(context.Background(), confirmed))

		require.Len(t, client.inputs, 1)
		in := client.inputs[0]
		assert.Equal(t, "https://sqs.local/queue", aws.ToString(in.QueueUrl))
		assert.JSONEq(t, string(confirmed.Payload), aws.ToString(in.MessageBody))
		assert.Equal(t, "payment.confirmed", aws.ToString(in.MessageAttributes["kind"].StringValue))
		assert.Equal(t, "reservation-events", aws.ToString(in.MessageAttributes["topic"].StringValue))
	})

	t.Run("error: send failure is wrapped", func(t *testing.T) {
		sendErr := errors.New("throttled")
		pub := messaging.NewSQSPublisher(&fakeSQS{err: sendErr}, "https://sqs.local/queue")

		err := pub.Publish(context.Background(), confirmed)

		assert.ErrorIs(t, err, sendErr)
	})
}

func TestNewSQSPublisherFromEnv_RequiresQueue(t *testing.T) {
	_, err := messaging.NewSQSPublisherFromEnv(context.Background(), "")
	assert.Error(t, err)
}

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	pub := messaging.NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, pub.Publish(context.Background(), confirmed))
	require.NoError(t, pub.Close())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "notification", line["msg"])
	assert.Equal(t, "payment.confirmed", line["kind"])
	assert.Equal(t, confirmed.Key, line["key"])
}
