package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/niksmo/misslily/internal/core/domain"
)

var contactSettingsNewestFirst = domain.Query{
	Collection: domain.ContactSettingsLog,
	OrderBy:    domain.OrderBy{Field: "createdAt", Desc: true},
}

// BusinessHours returns the stored opening hours or the defaults when none
// were saved yet.
func (s Service) BusinessHours(ctx context.Context) (domain.BusinessHours, error) {
	const op = "Service.BusinessHours"

	d, err := s.store.GetDocument(ctx, domain.HoursSettings, domain.MainSettingsID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultBusinessHours(), nil
	}
	if err != nil {
		return domain.BusinessHours{}, opErr(op, err)
	}
	return domain.DecodeBusinessHours(d), nil
}

func (s Service) SaveBusinessHours(
	ctx context.Context, sess domain.Session, h domain.BusinessHours,
) error {
	const op = "Service.SaveBusinessHours"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}
	if err := s.validateInput(h); err != nil {
		return opErr(op, err)
	}
	if err := checkOpeningTimes(h); err != nil {
		return opErr(op, err)
	}

	err := s.store.SetDocument(ctx, domain.HoursSettings, domain.MainSettingsID, h.Fields())
	if err != nil {
		return opErr(op, err)
	}
	s.published(ctx, domain.HoursSettings, domain.MainSettingsID, domain.Updated)
	return nil
}

// checkOpeningTimes requires open days to close after they open, with any
// lunch break inside that span. Times are HH:MM, so they order as strings.
func checkOpeningTimes(h domain.BusinessHours) error {
	ve := domain.ValidationError{Fields: map[string]string{}}
	for i, day := range h.Days {
		if !day.IsOpen {
			continue
		}
		name := domain.Weekdays[i]
		if day.OpenTime == "" || day.CloseTime == "" {
			ve.Fields[name] = "open day needs open and close time"
			continue
		}
		if day.OpenTime >= day.CloseTime {
			ve.Fields[name] = "closes before it opens"
			continue
		}
		if lb := day.LunchBreak; lb != nil {
			if lb.StartTime >= lb.EndTime ||
				lb.StartTime < day.OpenTime || lb.EndTime > day.CloseTime {
				ve.Fields[name] = "lunch break outside opening hours"
			}
		}
	}
	if len(ve.Fields) != 0 {
		return ve
	}
	return nil
}

// ContactSettings returns the active entries of the contact settings in
// effect.
func (s Service) ContactSettings(ctx context.Context) (domain.ContactSettings, error) {
	const op = "Service.ContactSettings"

	cs, err := s.latestContactSettings(ctx)
	if err != nil {
		return domain.ContactSettings{}, opErr(op, err)
	}
	return cs.Active(), nil
}

func (s Service) AllContactSettings(
	ctx context.Context, sess domain.Session,
) (domain.ContactSettings, error) {
	const op = "Service.AllContactSettings"

	if err := s.authorize(sess); err != nil {
		return domain.ContactSettings{}, opErr(op, err)
	}
	cs, err := s.latestContactSettings(ctx)
	if err != nil {
		return domain.ContactSettings{}, opErr(op, err)
	}
	return cs, nil
}

// SaveContactSettings stores cs as the newest version. Entries without an
// id get one.
func (s Service) SaveContactSettings(
	ctx context.Context, sess domain.Session, cs domain.ContactSettings,
) error {
	const op = "Service.SaveContactSettings"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}

	cs = s.withContactIDs(cs)
	if err := s.validateInput(cs); err != nil {
		return opErr(op, err)
	}

	id, err := s.store.AddDocument(ctx, domain.ContactSettingsLog, cs.Fields())
	if err != nil {
		return opErr(op, err)
	}
	s.published(ctx, domain.ContactSettingsLog, id, domain.Created)
	return nil
}

func (s Service) withContactIDs(cs domain.ContactSettings) domain.ContactSettings {
	assign := func(prefix, id string) string {
		if id != "" {
			return id
		}
		return prefix + "-" + s.newID()
	}
	cs.Phones = slices.Clone(cs.Phones)
	cs.WhatsApp = slices.Clone(cs.WhatsApp)
	cs.Emails = slices.Clone(cs.Emails)
	cs.Addresses = slices.Clone(cs.Addresses)
	for i := range cs.Phones {
		cs.Phones[i].ID = assign("phone", cs.Phones[i].ID)
		cs.Phones[i].Number = strings.TrimSpace(cs.Phones[i].Number)
	}
	for i := range cs.WhatsApp {
		cs.WhatsApp[i].ID = assign("whatsapp", cs.WhatsApp[i].ID)
		cs.WhatsApp[i].Number = strings.TrimSpace(cs.WhatsApp[i].Number)
	}
	for i := range cs.Emails {
		cs.Emails[i].ID = assign("email", cs.Emails[i].ID)
		cs.Emails[i].Email = strings.TrimSpace(cs.Emails[i].Email)
	}
	for i := range cs.Addresses {
		cs.Addresses[i].ID = assign("address", cs.Addresses[i].ID)
	}
	return cs
}

func (s Service) latestContactSettings(ctx context.Context) (domain.ContactSettings, error) {
	ds, err := s.store.QueryCollection(ctx, contactSettingsNewestFirst)
	if err != nil {
		return domain.ContactSettings{}, err
	}
	if len(ds) == 0 {
		return domain.DefaultContactSettings(), nil
	}
	return domain.DecodeContactSettings(ds[0]), nil
}

// whatsAppNumber is the first active WhatsApp number of the contact
// settings in effect, or the configured number when there is none.
func (s Service) whatsAppNumber(ctx context.Context) string {
	const op = "Service.whatsAppNumber"

	ds, err := s.store.QueryCollection(ctx, contactSettingsNewestFirst)
	if err != nil {
		slog.Warn("contact settings unavailable, using configured number",
			"op", op, "err", err)
		return s.whatsapp
	}
	if len(ds) == 0 {
		return s.whatsapp
	}
	for _, wa := range domain.DecodeContactSettings(ds[0]).Active().WhatsApp {
		if n := digits(wa.Number); n != "" {
			return n
		}
	}
	return s.whatsapp
}

// InstagramConfig returns the stored showcase configuration or the default
// account when none was saved yet.
func (s Service) InstagramConfig(ctx context.Context) (domain.InstagramConfig, error) {
	const op = "Service.InstagramConfig"

	d, err := s.store.GetDocument(ctx, domain.InstagramSettings, domain.MainSettingsID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultInstagramConfig(), nil
	}
	if err != nil {
		return domain.InstagramConfig{}, opErr(op, err)
	}
	return domain.DecodeInstagramConfig(d), nil
}

func (s Service) SaveInstagramConfig(
	ctx context.Context, sess domain.Session, c domain.InstagramConfig,
) error {
	const op = "Service.SaveInstagramConfig"

	if err := s.authorize(sess); err != nil {
		return opErr(op, err)
	}

	c.Username = strings.TrimPrefix(strings.TrimSpace(c.Username), "@")
	reels := make([]string, 0, len(c.ReelIDs))
	for _, id := range c.ReelIDs {
		reels = append(reels, strings.TrimSpace(id))
	}
	c.ReelIDs = reels

	if err := s.validateInput(c); err != nil {
		return opErr(op, err)
	}

	err := s.store.SetDocument(ctx, domain.InstagramSettings, domain.MainSettingsID, c.Fields())
	if err != nil {
		return opErr(op, err)
	}
	s.published(ctx, domain.InstagramSettings, domain.MainSettingsID, domain.Updated)
	return nil
}
