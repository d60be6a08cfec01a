package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
)

var _ port.IntakeEmitter = (*IntakeEmitter)(nil)

type gokaEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

// An IntakeEmitter hands accepted storefront submissions to the intake
// streams. Records are keyed by the sender email.
type IntakeEmitter struct {
	inquiries gokaEmitter
	contact   gokaEmitter
}

func NewIntakeEmitter(
	seedBrokers []string,
	inquiriesStream string,
	contactStream string,
	inquirySerde Serde,
	contactMessageSerde Serde,
) (IntakeEmitter, error) {
	const op = "NewIntakeEmitter"

	ie, err := goka.NewEmitter(
		seedBrokers,
		goka.Stream(inquiriesStream),
		newInquiryCodec(inquirySerde),
	)
	if err != nil {
		return IntakeEmitter{}, opErr(err, op)
	}

	ce, err := goka.NewEmitter(
		seedBrokers,
		goka.Stream(contactStream),
		newContactMessageCodec(contactMessageSerde),
	)
	if err != nil {
		_ = ie.Finish()
		return IntakeEmitter{}, opErr(err, op)
	}

	return IntakeEmitter{inquiries: ie, contact: ce}, nil
}

func (e IntakeEmitter) EmitInquiry(ctx context.Context, v domain.Inquiry) error {
	const op = "IntakeEmitter.EmitInquiry"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := e.inquiries.EmitSync(v.Email, inquiryToSchemaV1(v)); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e IntakeEmitter) EmitContactMessage(
	ctx context.Context, v domain.ContactMessage,
) error {
	const op = "IntakeEmitter.EmitContactMessage"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := e.contact.EmitSync(v.Email, contactMessageToSchemaV1(v)); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e IntakeEmitter) Close() {
	const op = "IntakeEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	for _, ge := range []gokaEmitter{e.inquiries, e.contact} {
		if err := ge.Finish(); err != nil {
			log.Error("failed to finish gracefully", "err", err)
		}
	}
	log.Info("emitter is closed")
}
