package domain

import "time"

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryContacted InquiryStatus = "contacted"
	InquiryCompleted InquiryStatus = "completed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryContacted, InquiryCompleted:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageUnread MessageStatus = "unread"
	MessageRead   MessageStatus = "read"
)

func (s MessageStatus) Valid() bool {
	return s == MessageUnread || s == MessageRead
}

const ProductInquiryType = "product_inquiry"

type Inquiry struct {
	ID          string
	ProductID   string
	ProductName string
	FullName    string
	Email       string
	Phone       string
	City        string
	Size        string
	Color       string
	Message     string
	InquiryType string
	Status      InquiryStatus
	CreatedAt   time.Time
}

func (v Inquiry) Fields() map[string]any {
	return map[string]any{
		"productId":   v.ProductID,
		"productName": v.ProductName,
		"fullName":    v.FullName,
		"email":       v.Email,
		"phone":       v.Phone,
		"city":        v.City,
		"size":        v.Size,
		"color":       v.Color,
		"message":     v.Message,
		"inquiryType": v.InquiryType,
		"status":      string(v.Status),
	}
}

func DecodeInquiry(d Document) Inquiry {
	status := InquiryStatus(stringField(d.Data, "status"))
	if status == "" || status == "new" {
		status = InquiryPending
	}
	return Inquiry{
		ID:          d.ID,
		ProductID:   stringField(d.Data, "productId"),
		ProductName: stringField(d.Data, "productName"),
		FullName:    stringField(d.Data, "fullName"),
		Email:       stringField(d.Data, "email"),
		Phone:       stringField(d.Data, "phone"),
		City:        stringField(d.Data, "city"),
		Size:        stringField(d.Data, "size"),
		Color:       stringField(d.Data, "color"),
		Message:     stringField(d.Data, "message"),
		InquiryType: stringField(d.Data, "inquiryType"),
		Status:      status,
		CreatedAt:   d.CreatedAt,
	}
}

func DecodeInquiries(ds []Document) []Inquiry {
	vs := make([]Inquiry, len(ds))
	for i := range ds {
		vs[i] = DecodeInquiry(ds[i])
	}
	return vs
}

type ContactMessage struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	Subject   string
	Message   string
	Status    MessageStatus
	CreatedAt time.Time
}

func (v ContactMessage) Fields() map[string]any {
	return map[string]any{
		"fullName": v.FullName,
		"email":    v.Email,
		"phone":    v.Phone,
		"subject":  v.Subject,
		"message":  v.Message,
		"status":   string(v.Status),
	}
}

func DecodeContactMessage(d Document) ContactMessage {
	status := MessageStatus(stringField(d.Data, "status"))
	if status == "" {
		status = MessageUnread
	}
	return ContactMessage{
		ID:        d.ID,
		FullName:  stringField(d.Data, "fullName"),
		Email:     stringField(d.Data, "email"),
		Phone:     stringField(d.Data, "phone"),
		Subject:   stringField(d.Data, "subject"),
		Message:   stringField(d.Data, "message"),
		Status:    status,
		CreatedAt: d.CreatedAt,
	}
}

func DecodeContactMessages(ds []Document) []ContactMessage {
	vs := make([]ContactMessage, len(ds))
	for i := range ds {
		vs[i] = DecodeContactMessage(ds[i])
	}
	return vs
}
