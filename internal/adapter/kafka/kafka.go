package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := append([]kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}, extra...)

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerWithClientOpt uses an already built client.
func ProducerWithClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func changeToSchemaV1(v domain.ChangeEvent) (s schema.ChangeEventV1) {
	s.Collection = string(v.Collection)
	s.DocumentID = v.DocumentID
	s.Action = string(v.Action)
	s.OccurredAt = v.OccurredAt
	return
}

func schemaV1ToChange(s schema.ChangeEventV1) (v domain.ChangeEvent) {
	v.Collection = domain.Collection(s.Collection)
	v.DocumentID = s.DocumentID
	v.Action = domain.ChangeAction(s.Action)
	v.OccurredAt = s.OccurredAt
	return
}

func inquiryToSchemaV1(v domain.Inquiry) (s schema.InquiryV1) {
	s.ProductID = v.ProductID
	s.ProductName = v.ProductName
	s.FullName = v.FullName
	s.Email = v.Email
	s.Phone = v.Phone
	s.City = v.City
	s.Size = v.Size
	s.Color = v.Color
	s.Message = v.Message
	s.InquiryType = v.InquiryType
	s.Status = string(v.Status)
	s.CreatedAt = v.CreatedAt
	return
}

func schemaV1ToInquiry(s schema.InquiryV1) (v domain.Inquiry) {
	v.ProductID = s.ProductID
	v.ProductName = s.ProductName
	v.FullName = s.FullName
	v.Email = s.Email
	v.Phone = s.Phone
	v.City = s.City
	v.Size = s.Size
	v.Color = s.Color
	v.Message = s.Message
	v.InquiryType = s.InquiryType
	v.Status = domain.InquiryStatus(s.Status)
	v.CreatedAt = s.CreatedAt
	return
}

func contactMessageToSchemaV1(v domain.ContactMessage) (s schema.ContactMessageV1) {
	s.FullName = v.FullName
	s.Email = v.Email
	s.Phone = v.Phone
	s.Subject = v.Subject
	s.Message = v.Message
	s.Status = string(v.Status)
	s.CreatedAt = v.CreatedAt
	return
}

func schemaV1ToContactMessage(s schema.ContactMessageV1) (v domain.ContactMessage) {
	v.FullName = s.FullName
	v.Email = s.Email
	v.Phone = s.Phone
	v.Subject = s.Subject
	v.Message = s.Message
	v.Status = domain.MessageStatus(s.Status)
	v.CreatedAt = s.CreatedAt
	return
}
