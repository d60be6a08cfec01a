package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const ChangeEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "misslily.changes",
	"name": "change_event",
	"fields": [
		{"name": "collection", "type": "string"},
		{"name": "document_id", "type": "string"},
		{"name": "action", "type": "string"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// A ChangeEventV1 reports a completed write to one document.
type ChangeEventV1 struct {
	Collection string    `avro:"collection"`
	DocumentID string    `avro:"document_id"`
	Action     string    `avro:"action"`
	OccurredAt time.Time `avro:"occurred_at"`
}

func ChangeEventV1Avro() avro.Schema {
	return avro.MustParse(ChangeEventSchemaTextV1)
}
