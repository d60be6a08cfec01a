package domain

import "time"

// MainSettingsID is the id of the single business hours and Instagram
// documents.
const MainSettingsID = "main"

// Weekdays are the keys of [BusinessHours.Days], Monday first.
var Weekdays = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

type LunchBreak struct {
	StartTime string `validate:"datetime=15:04"`
	EndTime   string `validate:"datetime=15:04"`
}

type DayHours struct {
	IsOpen     bool
	OpenTime   string `validate:"omitempty,datetime=15:04"`
	CloseTime  string `validate:"omitempty,datetime=15:04"`
	LunchBreak *LunchBreak
}

type HolidayHours struct {
	IsOpen bool
	Note   string `validate:"max=200"`
}

type BusinessHours struct {
	Days                [7]DayHours `validate:"dive"`
	Holidays            HolidayHours
	SpecialInstructions string `validate:"max=500"`
	UpdatedAt           time.Time
}

func DefaultBusinessHours() BusinessHours {
	var h BusinessHours
	for i := range h.Days {
		h.Days[i] = DayHours{IsOpen: true, OpenTime: "10:00", CloseTime: "20:00"}
	}
	h.Days[6] = DayHours{IsOpen: true, OpenTime: "11:00", CloseTime: "18:00"}
	h.Holidays = HolidayHours{Note: "Closed on holidays"}
	h.SpecialInstructions = "Please call ahead for appointments"
	return h
}

func (h BusinessHours) Fields() map[string]any {
	f := map[string]any{
		"holidays": map[string]any{
			"isOpen": h.Holidays.IsOpen,
			"note":   h.Holidays.Note,
		},
		"specialInstructions": h.SpecialInstructions,
	}
	for i, key := range Weekdays {
		d := h.Days[i]
		var lunch any
		if d.LunchBreak != nil {
			lunch = map[string]any{
				"startTime": d.LunchBreak.StartTime,
				"endTime":   d.LunchBreak.EndTime,
			}
		}
		f[key] = map[string]any{
			"isOpen":     d.IsOpen,
			"openTime":   d.OpenTime,
			"closeTime":  d.CloseTime,
			"lunchBreak": lunch,
		}
	}
	return f
}

// DecodeBusinessHours reads a stored document. Days or fields it lacks keep
// their default value.
func DecodeBusinessHours(d Document) BusinessHours {
	h := DefaultBusinessHours()
	for i, key := range Weekdays {
		m, ok := mapField(d.Data, key)
		if !ok {
			continue
		}
		day := h.Days[i]
		day.IsOpen = boolField(m, "isOpen", day.IsOpen)
		if v := stringField(m, "openTime"); v != "" {
			day.OpenTime = v
		}
		if v := stringField(m, "closeTime"); v != "" {
			day.CloseTime = v
		}
		day.LunchBreak = nil
		if lb, ok := mapField(m, "lunchBreak"); ok {
			day.LunchBreak = &LunchBreak{
				StartTime: stringField(lb, "startTime"),
				EndTime:   stringField(lb, "endTime"),
			}
		}
		h.Days[i] = day
	}
	if m, ok := mapField(d.Data, "holidays"); ok {
		h.Holidays.IsOpen = boolField(m, "isOpen", false)
		h.Holidays.Note = stringField(m, "note")
	}
	if _, ok := d.Data["specialInstructions"]; ok {
		h.SpecialInstructions = stringField(d.Data, "specialInstructions")
	}
	h.UpdatedAt = d.UpdatedAt
	return h
}

type PhoneContact struct {
	ID       string
	Number   string `validate:"required,max=32"`
	Type     string `validate:"max=32"`
	IsActive bool
}

type WhatsAppContact struct {
	ID       string
	Number   string `validate:"required,max=32"`
	IsActive bool
}

type EmailContact struct {
	ID       string
	Email    string `validate:"required,email"`
	Type     string `validate:"max=32"`
	IsActive bool
}

type AddressContact struct {
	ID       string
	Street   string `validate:"required"`
	City     string `validate:"required"`
	State    string
	ZipCode  string `validate:"max=16"`
	Country  string
	Type     string `validate:"max=32"`
	IsActive bool
}

// ContactSettings are the shop's published ways to get in touch. Every
// save is kept as a new version and the newest one is in effect.
type ContactSettings struct {
	Phones    []PhoneContact    `validate:"dive"`
	WhatsApp  []WhatsAppContact `validate:"dive"`
	Emails    []EmailContact    `validate:"dive"`
	Addresses []AddressContact  `validate:"dive"`
	UpdatedAt time.Time
}

func DefaultContactSettings() ContactSettings {
	return ContactSettings{
		Phones: []PhoneContact{
			{ID: "default-1", Number: "+91 8320953686", Type: "primary", IsActive: true},
			{ID: "default-2", Number: "+91 9265210069", Type: "secondary", IsActive: true},
		},
		WhatsApp: []WhatsAppContact{
			{ID: "default-wa-1", Number: "+91 8320953686", IsActive: true},
			{ID: "default-wa-2", Number: "+91 9265210069", IsActive: true},
		},
		Emails: []EmailContact{
			{ID: "default-email-1", Email: "info@misslily.com", Type: "info", IsActive: true},
			{ID: "default-email-2", Email: "support@misslily.com", Type: "support", IsActive: true},
		},
		Addresses: []AddressContact{{
			ID:       "default-addr-1",
			Street:   "123 Fashion Street",
			City:     "Style City",
			State:    "SC",
			ZipCode:  "12345",
			Country:  "India",
			Type:     "main",
			IsActive: true,
		}},
	}
}

// Active keeps the entries shown on the storefront.
func (s ContactSettings) Active() ContactSettings {
	out := ContactSettings{UpdatedAt: s.UpdatedAt}
	for _, v := range s.Phones {
		if v.IsActive {
			out.Phones = append(out.Phones, v)
		}
	}
	for _, v := range s.WhatsApp {
		if v.IsActive {
			out.WhatsApp = append(out.WhatsApp, v)
		}
	}
	for _, v := range s.Emails {
		if v.IsActive {
			out.Emails = append(out.Emails, v)
		}
	}
	for _, v := range s.Addresses {
		if v.IsActive {
			out.Addresses = append(out.Addresses, v)
		}
	}
	return out
}

func (s ContactSettings) Fields() map[string]any {
	phones := make([]any, len(s.Phones))
	for i, v := range s.Phones {
		phones[i] = map[string]any{
			"id": v.ID, "number": v.Number, "type": v.Type, "isActive": v.IsActive,
		}
	}
	whatsapp := make([]any, len(s.WhatsApp))
	for i, v := range s.WhatsApp {
		whatsapp[i] = map[string]any{
			"id": v.ID, "number": v.Number, "isActive": v.IsActive,
		}
	}
	emails := make([]any, len(s.Emails))
	for i, v := range s.Emails {
		emails[i] = map[string]any{
			"id": v.ID, "email": v.Email, "type": v.Type, "isActive": v.IsActive,
		}
	}
	addresses := make([]any, len(s.Addresses))
	for i, v := range s.Addresses {
		addresses[i] = map[string]any{
			"id":       v.ID,
			"street":   v.Street,
			"city":     v.City,
			"state":    v.State,
			"zipCode":  v.ZipCode,
			"country":  v.Country,
			"type":     v.Type,
			"isActive": v.IsActive,
		}
	}
	return map[string]any{
		"phones":    phones,
		"whatsapp":  whatsapp,
		"emails":    emails,
		"addresses": addresses,
	}
}

func DecodeContactSettings(d Document) ContactSettings {
	s := ContactSettings{UpdatedAt: d.UpdatedAt}
	for _, m := range mapsField(d.Data, "phones") {
		s.Phones = append(s.Phones, PhoneContact{
			ID:       stringField(m, "id"),
			Number:   stringField(m, "number"),
			Type:     stringField(m, "type"),
			IsActive: boolField(m, "isActive", true),
		})
	}
	for _, m := range mapsField(d.Data, "whatsapp") {
		s.WhatsApp = append(s.WhatsApp, WhatsAppContact{
			ID:       stringField(m, "id"),
			Number:   stringField(m, "number"),
			IsActive: boolField(m, "isActive", true),
		})
	}
	for _, m := range mapsField(d.Data, "emails") {
		s.Emails = append(s.Emails, EmailContact{
			ID:       stringField(m, "id"),
			Email:    stringField(m, "email"),
			Type:     stringField(m, "type"),
			IsActive: boolField(m, "isActive", true),
		})
	}
	for _, m := range mapsField(d.Data, "addresses") {
		s.Addresses = append(s.Addresses, AddressContact{
			ID:       stringField(m, "id"),
			Street:   stringField(m, "street"),
			City:     stringField(m, "city"),
			State:    stringField(m, "state"),
			ZipCode:  stringField(m, "zipCode"),
			Country:  stringField(m, "country"),
			Type:     stringField(m, "type"),
			IsActive: boolField(m, "isActive", true),
		})
	}
	return s
}

type InstagramConfig struct {
	Username   string   `validate:"required,max=30"`
	ProfileURL string   `validate:"required,url"`
	ReelIDs    []string `validate:"max=50,dive,required,max=64"`
	UpdatedAt  time.Time
}

func DefaultInstagramConfig() InstagramConfig {
	return InstagramConfig{
		Username:   "misslily_0.2_",
		ProfileURL: "https://www.instagram.com/misslily_0.2_?utm_source=qr&igsh=MXZ4bTk3M3VzbGZlNw==",
		ReelIDs:    []string{},
	}
}

func (c InstagramConfig) Fields() map[string]any {
	reels := c.ReelIDs
	if reels == nil {
		reels = []string{}
	}
	return map[string]any{
		"username":   c.Username,
		"profileUrl": c.ProfileURL,
		"reelIds":    reels,
	}
}

func DecodeInstagramConfig(d Document) InstagramConfig {
	c := DefaultInstagramConfig()
	if v := stringField(d.Data, "username"); v != "" {
		c.Username = v
	}
	if v := stringField(d.Data, "profileUrl"); v != "" {
		c.ProfileURL = v
	}
	if v := stringsField(d.Data, "reelIds"); v != nil {
		c.ReelIDs = v
	}
	c.UpdatedAt = d.UpdatedAt
	return c
}
