package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const InquirySchemaTextV1 = `{
	"type": "record",
	"namespace": "misslily.intake",
	"name": "inquiry",
	"fields": [
		{"name": "product_id", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "full_name", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "phone", "type": "string"},
		{"name": "city", "type": "string"},
		{"name": "size", "type": "string"},
		{"name": "color", "type": "string"},
		{"name": "message", "type": "string"},
		{"name": "inquiry_type", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

const ContactMessageSchemaTextV1 = `{
	"type": "record",
	"namespace": "misslily.intake",
	"name": "contact_message",
	"fields": [
		{"name": "full_name", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "phone", "type": "string"},
		{"name": "subject", "type": "string"},
		{"name": "message", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	InquiryV1 struct {
		ProductID   string    `avro:"product_id"`
		ProductName string    `avro:"product_name"`
		FullName    string    `avro:"full_name"`
		Email       string    `avro:"email"`
		Phone       string    `avro:"phone"`
		City        string    `avro:"city"`
		Size        string    `avro:"size"`
		Color       string    `avro:"color"`
		Message     string    `avro:"message"`
		InquiryType string    `avro:"inquiry_type"`
		Status      string    `avro:"status"`
		CreatedAt   time.Time `avro:"created_at"`
	}

	ContactMessageV1 struct {
		FullName  string    `avro:"full_name"`
		Email     string    `avro:"email"`
		Phone     string    `avro:"phone"`
		Subject   string    `avro:"subject"`
		Message   string    `avro:"message"`
		Status    string    `avro:"status"`
		CreatedAt time.Time `avro:"created_at"`
	}
)

func InquiryV1Avro() avro.Schema {
	return avro.MustParse(InquirySchemaTextV1)
}

func ContactMessageV1Avro() avro.Schema {
	return avro.MustParse(ContactMessageSchemaTextV1)
}
