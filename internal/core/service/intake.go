package service

import (
	"context"
	"fmt"

	"github.com/niksmo/misslily/internal/core/domain"
)

// SaveInquiry persists an inquiry accepted by [Service.SubmitInquiry].
func (s Service) SaveInquiry(ctx context.Context, v domain.Inquiry) error {
	const op = "Service.SaveInquiry"

	id, err := s.store.AddDocument(ctx, domain.Inquiries, v.Fields())
	if err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Inquiries, id, domain.Created)
	return nil
}

// SaveContactMessage persists a message accepted by [Service.SubmitContact].
func (s Service) SaveContactMessage(
	ctx context.Context, v domain.ContactMessage,
) error {
	const op = "Service.SaveContactMessage"

	id, err := s.store.AddDocument(ctx, domain.ContactMessages, v.Fields())
	if err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.ContactMessages, id, domain.Created)
	return nil
}

func (s Service) ListInquiries(
	ctx context.Context, sess domain.Session,
) ([]domain.Inquiry, error) {
	const op = "Service.ListInquiries"

	if err := s.authorize(sess); err != nil {
		return nil, opErr(op, err)
	}

	ds, err := s.store.QueryCollection(ctx, inquiriesNewestFirst)
	if err != nil {
		return nil, opErr(op, err)
	}
	return domain.DecodeInquiries(ds), nil
}

func (s Service) SetInquiryStatus(
	ctx context.Context,
	sess domain.Session,
	id string,
	status domain.InquiryStatus,
) error {
	const op = "Service.SetInquiryStatus"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}
	if !status.Valid() {
		return opErr(op, statusError(string(status)))
	}

	patch := map[string]any{"status": string(status)}
	if err := s.store.UpdateDocument(ctx, domain.Inquiries, id, patch); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Inquiries, id, domain.Updated)
	return nil
}

func (s Service) DeleteInquiry(
	ctx context.Context, sess domain.Session, id string,
) error {
	const op = "Service.DeleteInquiry"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}

	if err := s.store.DeleteDocument(ctx, domain.Inquiries, id); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.Inquiries, id, domain.Deleted)
	return nil
}

func (s Service) ListMessages(
	ctx context.Context, sess domain.Session,
) ([]domain.ContactMessage, error) {
	const op = "Service.ListMessages"

	if err := s.authorize(sess); err != nil {
		return nil, opErr(op, err)
	}

	ds, err := s.store.QueryCollection(ctx, messagesNewestFirst)
	if err != nil {
		return nil, opErr(op, err)
	}
	return domain.DecodeContactMessages(ds), nil
}

func (s Service) SetMessageStatus(
	ctx context.Context,
	sess domain.Session,
	id string,
	status domain.MessageStatus,
) error {
	const op = "Service.SetMessageStatus"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}
	if !status.Valid() {
		return opErr(op, statusError(string(status)))
	}

	patch := map[string]any{"status": string(status)}
	if err := s.store.UpdateDocument(ctx, domain.ContactMessages, id, patch); err != nil {
		return opErr(op, err)
	}

	s.published(ctx, domain.ContactMessages, id, domain.Updated)
	return nil
}

func statusError(status string) error {
	return domain.ValidationError{
		Fields: map[string]string{"Status": fmt.Sprintf("unknown status %q", status)},
	}
}
