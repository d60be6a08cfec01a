package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBusinessHours(t *testing.T) {
	t.Run("EmptyDocumentIsDefault", func(t *testing.T) {
		got := DecodeBusinessHours(Document{Data: map[string]any{}})
		assert.Equal(t, DefaultBusinessHours(), got)
	})

	t.Run("PartialDocument", func(t *testing.T) {
		got := DecodeBusinessHours(Document{Data: map[string]any{
			"sunday": map[string]any{"isOpen": false},
			"monday": map[string]any{
				"isOpen":     true,
				"openTime":   "09:30",
				"closeTime":  "19:00",
				"lunchBreak": map[string]any{"startTime": "13:00", "endTime": "14:00"},
			},
			"holidays": map[string]any{"isOpen": true, "note": "Open on Diwali"},
		}})

		assert.Equal(t, "09:30", got.Days[0].OpenTime)
		require.NotNil(t, got.Days[0].LunchBreak)
		assert.Equal(t, "14:00", got.Days[0].LunchBreak.EndTime)
		assert.False(t, got.Days[6].IsOpen)
		assert.Equal(t, "11:00", got.Days[6].OpenTime)
		assert.Equal(t, "10:00", got.Days[1].OpenTime)
		assert.Equal(t, HolidayHours{IsOpen: true, Note: "Open on Diwali"}, got.Holidays)
		assert.Equal(t, "Please call ahead for appointments", got.SpecialInstructions)
	})

	t.Run("FieldsRoundTrip", func(t *testing.T) {
		h := DefaultBusinessHours()
		h.Days[2].LunchBreak = &LunchBreak{StartTime: "13:00", EndTime: "13:30"}
		h.SpecialInstructions = ""

		got := DecodeBusinessHours(Document{Data: h.Fields()})
		assert.Equal(t, h, got)
	})
}

func TestDecodeContactSettings(t *testing.T) {
	raw := `{
		"phones": [{"id": "p1", "number": 8320953686, "type": "primary"}],
		"whatsapp": [{"id": "w1", "number": "+91 8320953686", "isActive": false}, "junk"],
		"emails": [{"id": "e1", "email": "info@misslily.com", "isActive": true}]
	}`
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	require.NoError(t, dec.Decode(&data))

	got := DecodeContactSettings(Document{Data: data})

	require.Len(t, got.Phones, 1)
	assert.Equal(t, "8320953686", got.Phones[0].Number)
	assert.True(t, got.Phones[0].IsActive)
	require.Len(t, got.WhatsApp, 1)
	assert.False(t, got.WhatsApp[0].IsActive)
	assert.Empty(t, got.Addresses)

	active := got.Active()
	assert.Len(t, active.Phones, 1)
	assert.Empty(t, active.WhatsApp)
	assert.Len(t, active.Emails, 1)
}

func TestContactSettingsFieldsRoundTrip(t *testing.T) {
	s := DefaultContactSettings()
	s.Addresses[0].IsActive = false

	got := DecodeContactSettings(Document{Data: s.Fields()})
	assert.Equal(t, s, got)
}

func TestDecodeInstagramConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		got := DecodeInstagramConfig(Document{Data: map[string]any{}})
		assert.Equal(t, DefaultInstagramConfig(), got)
	})

	t.Run("Stored", func(t *testing.T) {
		c := InstagramConfig{
			Username:   "misslily",
			ProfileURL: "https://www.instagram.com/misslily",
			ReelIDs:    []string{"CxYz123Abc"},
		}
		got := DecodeInstagramConfig(Document{Data: c.Fields()})
		assert.Equal(t, c, got)
	})
}
