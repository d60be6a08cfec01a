package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type avroSerde struct {
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

func newAvroSerde(s avro.Schema) avroSerde {
	return avroSerde{schema.AvroEncodeFn(s), schema.AvroDecodeFn(s)}
}

func (s avroSerde) Encode(v any) ([]byte, error) { return s.encode(v) }
func (s avroSerde) Decode(b []byte, v any) error { return s.decode(b, v) }

type MockProducerClient struct {
	mock.Mock
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (c *MockProducerClient) Close() {
	c.Called()
}

type MockConsumerClient struct {
	mock.Mock
}

func (c *MockConsumerClient) PollFetches(ctx context.Context) kgo.Fetches {
	return c.Called(ctx).Get(0).(kgo.Fetches)
}

func (c *MockConsumerClient) CommitUncommittedOffsets(ctx context.Context) error {
	return c.Called(ctx).Error(0)
}

func (c *MockConsumerClient) Close() {
	c.Called()
}

type recordingNotifier struct {
	batches [][]domain.ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, es []domain.ChangeEvent) {
	n.batches = append(n.batches, es)
}

func fetchesOf(rs ...*kgo.Record) kgo.Fetches {
	return kgo.Fetches{{
		Topics: []kgo.FetchTopic{{
			Topic: "changes",
			Partitions: []kgo.FetchPartition{{
				Partition: 0,
				Records:   rs,
			}},
		}},
	}}
}

func changeEvent() domain.ChangeEvent {
	return domain.ChangeEvent{
		Collection: domain.Products,
		DocumentID: "p1",
		Action:     domain.Updated,
		OccurredAt: time.UnixMilli(1_760_000_000_000).UTC(),
	}
}

func TestChangeProducer(t *testing.T) {
	serde := newAvroSerde(schema.ChangeEventV1Avro())

	t.Run("PublishChanges", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything,
			mock.MatchedBy(func(rs []*kgo.Record) bool {
				return len(rs) == 1 && string(rs[0].Key) == "products"
			}),
		).Return(kgo.ProduceResults{{}}).Once()

		p, err := NewChangeProducer(
			ProducerWithClientOpt(cl), ProducerEncoderOpt(serde),
		)
		require.NoError(t, err)

		require.NoError(t, p.PublishChanges(t.Context(), changeEvent()))
		cl.AssertExpectations(t)
	})

	t.Run("NothingToPublish", func(t *testing.T) {
		cl := new(MockProducerClient)
		p, err := NewChangeProducer(
			ProducerWithClientOpt(cl), ProducerEncoderOpt(serde),
		)
		require.NoError(t, err)

		require.NoError(t, p.PublishChanges(t.Context()))
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("BrokerError", func(t *testing.T) {
		cl := new(MockProducerClient)
		errBroker := errors.New("not enough replicas")
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: errBroker}}).Once()

		p, err := NewChangeProducer(
			ProducerWithClientOpt(cl), ProducerEncoderOpt(serde),
		)
		require.NoError(t, err)

		err = p.PublishChanges(t.Context(), changeEvent())
		assert.ErrorIs(t, err, errBroker)
	})

	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewChangeProducer(ProducerEncoderOpt(serde))
		})
	})
}

func TestChangeConsumer(t *testing.T) {
	serde := newAvroSerde(schema.ChangeEventV1Avro())

	encode := func(t *testing.T, v domain.ChangeEvent) *kgo.Record {
		b, err := serde.Encode(changeToSchemaV1(v))
		require.NoError(t, err)
		return &kgo.Record{Value: b}
	}

	t.Run("NotifiesAndCommits", func(t *testing.T) {
		cl := new(MockConsumerClient)
		n := new(recordingNotifier)

		unknown := changeEvent()
		unknown.Collection = "orders"

		cl.On("PollFetches", mock.Anything).Return(fetchesOf(
			encode(t, changeEvent()),
			&kgo.Record{Value: []byte{0xff}},
			encode(t, unknown),
		)).Once()
		cl.On("CommitUncommittedOffsets", mock.Anything).Return(nil).Once()

		c, err := NewChangeConsumer(
			ConsumerWithClientOpt(cl),
			ConsumerDecoderOpt(serde),
			ChangeConsumerNotifierOpt(n),
		)
		require.NoError(t, err)

		require.NoError(t, c.consumer.consume(t.Context()))
		require.Len(t, n.batches, 1)
		require.Len(t, n.batches[0], 1)

		got := n.batches[0][0]
		want := changeEvent()
		assert.Equal(t, want.Collection, got.Collection)
		assert.Equal(t, want.DocumentID, got.DocumentID)
		assert.Equal(t, want.Action, got.Action)
		assert.True(t, want.OccurredAt.Equal(got.OccurredAt))
		cl.AssertExpectations(t)
	})

	t.Run("EmptyPollSkipsCommit", func(t *testing.T) {
		cl := new(MockConsumerClient)
		n := new(recordingNotifier)
		cl.On("PollFetches", mock.Anything).Return(kgo.Fetches{}).Once()

		c, err := NewChangeConsumer(
			ConsumerWithClientOpt(cl),
			ConsumerDecoderOpt(serde),
			ChangeConsumerNotifierOpt(n),
		)
		require.NoError(t, err)

		require.NoError(t, c.consumer.consume(t.Context()))
		assert.Empty(t, n.batches)
		cl.AssertNotCalled(t, "CommitUncommittedOffsets", mock.Anything)
	})

	t.Run("StopsOnCancel", func(t *testing.T) {
		cl := new(MockConsumerClient)
		n := new(recordingNotifier)

		c, err := NewChangeConsumer(
			ConsumerWithClientOpt(cl),
			ConsumerDecoderOpt(serde),
			ChangeConsumerNotifierOpt(n),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		done := make(chan struct{})
		go func() {
			c.Run(ctx)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("consumer did not stop")
		}
	})
}

type fakeEmitter struct {
	keys     []string
	msgs     []any
	err      error
	finished bool
}

func (e *fakeEmitter) EmitSync(key string, msg any) error {
	if e.err != nil {
		return e.err
	}
	e.keys = append(e.keys, key)
	e.msgs = append(e.msgs, msg)
	return nil
}

func (e *fakeEmitter) Finish() error {
	e.finished = true
	return nil
}

func TestIntakeEmitter(t *testing.T) {
	t.Run("EmitInquiry", func(t *testing.T) {
		inquiries, contact := new(fakeEmitter), new(fakeEmitter)
		e := IntakeEmitter{inquiries: inquiries, contact: contact}

		v := domain.Inquiry{
			ProductID: "p1",
			Email:     "asha@example.com",
			Status:    domain.InquiryPending,
		}
		require.NoError(t, e.EmitInquiry(t.Context(), v))

		require.Len(t, inquiries.msgs, 1)
		assert.Equal(t, []string{"asha@example.com"}, inquiries.keys)
		assert.Equal(t, inquiryToSchemaV1(v), inquiries.msgs[0])
		assert.Empty(t, contact.msgs)
	})

	t.Run("EmitContactMessageError", func(t *testing.T) {
		errBroker := errors.New("leader not available")
		e := IntakeEmitter{
			inquiries: new(fakeEmitter),
			contact:   &fakeEmitter{err: errBroker},
		}

		err := e.EmitContactMessage(t.Context(), domain.ContactMessage{})
		assert.ErrorIs(t, err, errBroker)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		inquiries := new(fakeEmitter)
		e := IntakeEmitter{inquiries: inquiries, contact: new(fakeEmitter)}

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := e.EmitInquiry(ctx, domain.Inquiry{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, inquiries.msgs)
	})

	t.Run("Close", func(t *testing.T) {
		inquiries, contact := new(fakeEmitter), new(fakeEmitter)
		IntakeEmitter{inquiries: inquiries, contact: contact}.Close()
		assert.True(t, inquiries.finished)
		assert.True(t, contact.finished)
	})
}

func TestIntakeCodecs(t *testing.T) {
	inquiry := newInquiryCodec(newAvroSerde(schema.InquiryV1Avro()))
	contact := newContactMessageCodec(newAvroSerde(schema.ContactMessageV1Avro()))

	t.Run("InquiryRoundTrip", func(t *testing.T) {
		v := domain.Inquiry{
			ProductID:   "p1",
			ProductName: "Silk Saree",
			FullName:    "Asha Patel",
			Email:       "asha@example.com",
			Phone:       "9876543210",
			City:        "Surat",
			Size:        "M",
			Color:       "Red",
			Message:     "Is it available?",
			InquiryType: domain.ProductInquiryType,
			Status:      domain.InquiryPending,
			CreatedAt:   time.UnixMilli(1_760_000_000_000).UTC(),
		}

		b, err := inquiry.Encode(inquiryToSchemaV1(v))
		require.NoError(t, err)

		decoded, err := inquiry.Decode(b)
		require.NoError(t, err)

		got := schemaV1ToInquiry(decoded.(schema.InquiryV1))
		assert.True(t, v.CreatedAt.Equal(got.CreatedAt))
		got.CreatedAt = v.CreatedAt
		assert.Equal(t, v, got)
	})

	t.Run("WrongType", func(t *testing.T) {
		_, err := inquiry.Encode(schema.ContactMessageV1{})
		assert.ErrorIs(t, err, ErrInvalidValueType)

		_, err = contact.Encode(schema.InquiryV1{})
		assert.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := contact.Decode([]byte{0xff, 0xff})
		assert.Error(t, err)
	})
}
