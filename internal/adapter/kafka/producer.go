package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
	"github.com/niksmo/misslily/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.ChangePublisher = (*ChangeProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A ChangeProducer publishes [domain.ChangeEvent] to the change feed topic.
//
// Records are keyed by collection so that events of one collection keep
// their order.
type ChangeProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewChangeProducer(
	opts ...ProducerOpt,
) (ChangeProducer, error) {
	const op = "NewChangeProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ChangeProducer{}, opErr(err, op)
		}
	}

	opPrefix := "ChangeProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return ChangeProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p ChangeProducer) Close() {
	p.producer.close()
}

func (p ChangeProducer) PublishChanges(
	ctx context.Context, vs ...domain.ChangeEvent,
) error {
	const op = "PublishChanges"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if len(vs) == 0 {
		return nil
	}

	rs, err := p.createRecords(vs)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, rs...); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p ChangeProducer) createRecords(
	vs []domain.ChangeEvent,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	for _, v := range vs {
		s := p.toSchema(v)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		msgKey := []byte(s.Collection)
		r := &kgo.Record{Key: msgKey, Value: b, Timestamp: s.OccurredAt}
		rs = append(rs, r)
	}

	return rs, nil
}

func (ChangeProducer) toSchema(v domain.ChangeEvent) schema.ChangeEventV1 {
	return changeToSchemaV1(v)
}
