package messaging

import (
	"context"

	"car-rental-core/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the slice of the SQS client the publisher needs.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	client   SQSAPI
	queueURL string
}

var _ Publisher = (*SQSPublisher)(nil)

// NewSQSPublisherFromEnv resolves credentials and region the standard AWS way.
func NewSQSPublisherFromEnv(ctx context.Context, queueURL string) (*SQSPublisher, error) {
	if queueURL == "" {
		return nil, errs.New("sqs queue url is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load aws config")
	}
	return NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL), nil
}

func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
	}
}

func (p *SQSPublisher) Publish(ctx context.Context, msg Message) error {
	_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(msg.Payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"kind":  {DataType: aws.String("String"), StringValue: aws.String(msg.Kind)},
			"topic": {DataType: aws.String("String"), StringValue: aws.String(msg.Topic)},
		},
	})
	if err != nil {
		return errs.Wrap(err, "failed to send message to sqs")
	}
	return nil
}

func (p *SQSPublisher) Close() error { return nil }
