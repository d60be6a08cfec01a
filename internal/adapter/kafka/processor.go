package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/misslily/internal/core/port"
	"github.com/niksmo/misslily/pkg/retry"
	"github.com/niksmo/misslily/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "runProc"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An inquiryCodec used for serde [schema.InquiryV1]
type inquiryCodec struct {
	serde Serde
}

func newInquiryCodec(s Serde) inquiryCodec {
	return inquiryCodec{s}
}

func (c inquiryCodec) Encode(v any) ([]byte, error) {
	const op = "inquiryCodec.Encode"
	if _, ok := v.(schema.InquiryV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c inquiryCodec) Decode(data []byte) (any, error) {
	const op = "inquiryCodec.Decode"
	var s schema.InquiryV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A contactMessageCodec used for serde [schema.ContactMessageV1]
type contactMessageCodec struct {
	serde Serde
}

func newContactMessageCodec(s Serde) contactMessageCodec {
	return contactMessageCodec{s}
}

func (c contactMessageCodec) Encode(v any) ([]byte, error) {
	const op = "contactMessageCodec.Encode"
	if _, ok := v.(schema.ContactMessageV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c contactMessageCodec) Decode(data []byte) (any, error) {
	const op = "contactMessageCodec.Decode"
	var s schema.ContactMessageV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

var saveRetry = retry.RetryConfig{
	MaxAttempts: 5,
	Backoff:     retry.ExponentialBackoff(200 * time.Millisecond),
}

// An IntakeProcessor stores accepted inquiries and contact messages.
//
// A record that still cannot be saved after retries fails the processor,
// so it is consumed again after restart.
type IntakeProcessor struct {
	opPrefix string
	proc     processor
	saver    port.IntakeSaver
}

func NewIntakeProcessor(
	seedBrokers []string,
	group string,
	inquiriesStream string,
	contactStream string,
	inquirySerde Serde,
	contactMessageSerde Serde,
	saver port.IntakeSaver,
) (*IntakeProcessor, error) {
	const op = "NewIntakeProcessor"

	p := IntakeProcessor{
		opPrefix: "IntakeProcessor",
		saver:    saver,
	}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inquiriesStream),
			newInquiryCodec(inquirySerde),
			p.processInquiry,
		),
		goka.Input(
			goka.Stream(contactStream),
			newContactMessageCodec(contactMessageSerde),
			p.processContactMessage,
		),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *IntakeProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *IntakeProcessor) Close() {
	p.proc.close()
}

func (p *IntakeProcessor) processInquiry(ctx goka.Context, msg any) {
	const op = "processInquiry"
	log := slog.With("op", makeOp(p.opPrefix, op))

	s, ok := msg.(schema.InquiryV1)
	if !ok {
		log.Error("unexpected message", "err", ErrInvalidValueType)
		return
	}

	err := retry.Do(ctx.Context(), saveRetry, func() error {
		return p.saver.SaveInquiry(ctx.Context(), schemaV1ToInquiry(s))
	})
	if err != nil {
		ctx.Fail(opErr(err, p.opPrefix, op))
		return
	}
	log.Info("inquiry saved", "product", s.ProductID)
}

func (p *IntakeProcessor) processContactMessage(ctx goka.Context, msg any) {
	const op = "processContactMessage"
	log := slog.With("op", makeOp(p.opPrefix, op))

	s, ok := msg.(schema.ContactMessageV1)
	if !ok {
		log.Error("unexpected message", "err", ErrInvalidValueType)
		return
	}

	err := retry.Do(ctx.Context(), saveRetry, func() error {
		return p.saver.SaveContactMessage(ctx.Context(), schemaV1ToContactMessage(s))
	})
	if err != nil {
		ctx.Fail(opErr(err, p.opPrefix, op))
		return
	}
	log.Info("contact message saved", "subject", s.Subject)
}
