package httphandler

import (
	"encoding/json"
	"time"

	"github.com/niksmo/misslily/internal/core/catalog"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/service"
)

type Product struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Price           json.Number `json:"price"`
	Discount        json.Number `json:"discount"`
	DiscountedPrice json.Number `json:"discountedPrice"`
	Stock           int         `json:"stock"`
	InStock         bool        `json:"inStock"`
	CategoryID      string      `json:"categoryId"`
	Code            string      `json:"code,omitempty"`
	IsActive        bool        `json:"isActive"`
	Images          []string    `json:"images"`
	MainImage       string      `json:"mainImage,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	IsActive     bool      `json:"isActive"`
	ProductCount *int      `json:"productCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Inquiry struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	City        string    `json:"city"`
	Size        string    `json:"size"`
	Color       string    `json:"color"`
	Message     string    `json:"message"`
	InquiryType string    `json:"inquiryType"`
	Status      string    `json:"status"`
	WhatsApp    string    `json:"whatsApp"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReportRow struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Dashboard struct {
	TotalProducts    int              `json:"totalProducts"`
	TotalCategories  int              `json:"totalCategories"`
	PendingInquiries int              `json:"pendingInquiries"`
	UnreadMessages   int              `json:"unreadMessages"`
	RecentProducts   []Product        `json:"recentProducts"`
	RecentInquiries  []Inquiry        `json:"recentInquiries"`
	RecentMessages   []ContactMessage `json:"recentMessages"`
	TopCategories    []ReportRow      `json:"topCategories"`
}

type InquiryRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Message     string `json:"message"`
}

type InquiryAccepted struct {
	WhatsApp string `json:"whatsApp"`
}

type ContactRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

type Created struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func toProduct(p domain.Product) Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return Product{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           json.Number(p.Price.String()),
		Discount:        json.Number(p.Discount.String()),
		DiscountedPrice: json.Number(p.DiscountedPrice().StringFixed(2)),
		Stock:           p.Stock,
		InStock:         p.InStock(),
		CategoryID:      p.CategoryID,
		Code:            p.Code,
		IsActive:        p.IsActive,
		Images:          images,
		MainImage:       p.MainImage(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

func toCategory(c domain.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategories(cs []domain.Category) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = toCategory(c)
	}
	return out
}

func toCategoryCounts(cs []catalog.CategoryCount) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = toCategory(c.Category)
		out[i].ProductCount = &cs[i].Count
	}
	return out
}

func toInquiry(v domain.Inquiry) Inquiry {
	return Inquiry{
		ID:          v.ID,
		ProductID:   v.ProductID,
		ProductName: v.ProductName,
		FullName:    v.FullName,
		Email:       v.Email,
		Phone:       v.Phone,
		City:        v.City,
		Size:        v.Size,
		Color:       v.Color,
		Message:     v.Message,
		InquiryType: v.InquiryType,
		Status:      string(v.Status),
		WhatsApp:    service.FollowUpLink(v.Phone),
		CreatedAt:   v.CreatedAt,
	}
}

func toInquiries(vs []domain.Inquiry) []Inquiry {
	out := make([]Inquiry, len(vs))
	for i, v := range vs {
		out[i] = toInquiry(v)
	}
	return out
}

func toContactMessage(v domain.ContactMessage) ContactMessage {
	return ContactMessage{
		ID:        v.ID,
		FullName:  v.FullName,
		Email:     v.Email,
		Phone:     v.Phone,
		Subject:   v.Subject,
		Message:   v.Message,
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt,
	}
}

func toContactMessages(vs []domain.ContactMessage) []ContactMessage {
	out := make([]ContactMessage, len(vs))
	for i, v := range vs {
		out[i] = toContactMessage(v)
	}
	return out
}

func toReportRows(rs []catalog.ReportRow) []ReportRow {
	out := make([]ReportRow, len(rs))
	for i, r := range rs {
		out[i] = ReportRow(r)
	}
	return out
}

func toDashboard(s catalog.DashboardStats) Dashboard {
	return Dashboard{
		TotalProducts:    s.TotalProducts,
		TotalCategories:  s.TotalCategories,
		PendingInquiries: s.PendingInquiries,
		UnreadMessages:   s.UnreadMessages,
		RecentProducts:   toProducts(s.RecentProducts),
		RecentInquiries:  toInquiries(s.RecentInquiries),
		RecentMessages:   toContactMessages(s.RecentMessages),
		TopCategories:    toReportRows(s.TopCategories),
	}
}

func (r InquiryRequest) toDomain() domain.InquiryInput {
	return domain.InquiryInput(r)
}

func (r ContactRequest) toDomain() domain.ContactInput {
	return domain.ContactInput(r)
}

type LunchBreak struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type DayHours struct {
	IsOpen     bool        `json:"isOpen"`
	OpenTime   string      `json:"openTime"`
	CloseTime  string      `json:"closeTime"`
	LunchBreak *LunchBreak `json:"lunchBreak"`
}

type HolidayHours struct {
	IsOpen bool   `json:"isOpen"`
	Note   string `json:"note"`
}

type BusinessHours struct {
	Monday              DayHours     `json:"monday"`
	Tuesday             DayHours     `json:"tuesday"`
	Wednesday           DayHours     `json:"wednesday"`
	Thursday            DayHours     `json:"thursday"`
	Friday              DayHours     `json:"friday"`
	Saturday            DayHours     `json:"saturday"`
	Sunday              DayHours     `json:"sunday"`
	Holidays            HolidayHours `json:"holidays"`
	SpecialInstructions string       `json:"specialInstructions"`
	UpdatedAt           *time.Time   `json:"updatedAt,omitempty"`
}

func (b *BusinessHours) days() [7]*DayHours {
	return [7]*DayHours{
		&b.Monday, &b.Tuesday, &b.Wednesday, &b.Thursday,
		&b.Friday, &b.Saturday, &b.Sunday,
	}
}

type Phone struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

type WhatsApp struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	IsActive bool   `json:"isActive"`
}

type Email struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

type Address struct {
	ID       string `json:"id"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Type     string `json:"type"`
	IsActive bool   `json:"isActive"`
}

type ContactSettings struct {
	Phones    []Phone    `json:"phones"`
	WhatsApp  []WhatsApp `json:"whatsapp"`
	Emails    []Email    `json:"emails"`
	Addresses []Address  `json:"addresses"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type InstagramConfig struct {
	Username   string     `json:"username"`
	ProfileURL string     `json:"profileUrl"`
	ReelIDs    []string   `json:"reelIds"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toBusinessHours(h domain.BusinessHours) BusinessHours {
	var out BusinessHours
	for i, d := range out.days() {
		src := h.Days[i]
		*d = DayHours{
			IsOpen:    src.IsOpen,
			OpenTime:  src.OpenTime,
			CloseTime: src.CloseTime,
		}
		if src.LunchBreak != nil {
			d.LunchBreak = &LunchBreak{
				StartTime: src.LunchBreak.StartTime,
				EndTime:   src.LunchBreak.EndTime,
			}
		}
	}
	out.Holidays = HolidayHours(h.Holidays)
	out.SpecialInstructions = h.SpecialInstructions
	out.UpdatedAt = timeOrNil(h.UpdatedAt)
	return out
}

func (b BusinessHours) toDomain() domain.BusinessHours {
	var h domain.BusinessHours
	for i, d := range b.days() {
		h.Days[i] = domain.DayHours{
			IsOpen:    d.IsOpen,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
		}
		if d.LunchBreak != nil {
			h.Days[i].LunchBreak = &domain.LunchBreak{
				StartTime: d.LunchBreak.StartTime,
				EndTime:   d.LunchBreak.EndTime,
			}
		}
	}
	h.Holidays = domain.HolidayHours(b.Holidays)
	h.SpecialInstructions = b.SpecialInstructions
	return h
}

func toContactSettings(s domain.ContactSettings) ContactSettings {
	out := ContactSettings{
		Phones:    make([]Phone, len(s.Phones)),
		WhatsApp:  make([]WhatsApp, len(s.WhatsApp)),
		Emails:    make([]Email, len(s.Emails)),
		Addresses: make([]Address, len(s.Addresses)),
		UpdatedAt: timeOrNil(s.UpdatedAt),
	}
	for i, v := range s.Phones {
		out.Phones[i] = Phone(v)
	}
	for i, v := range s.WhatsApp {
		out.WhatsApp[i] = WhatsApp(v)
	}
	for i, v := range s.Emails {
		out.Emails[i] = Email(v)
	}
	for i, v := range s.Addresses {
		out.Addresses[i] = Address(v)
	}
	return out
}

func (c ContactSettings) toDomain() domain.ContactSettings {
	var s domain.ContactSettings
	for _, v := range c.Phones {
		s.Phones = append(s.Phones, domain.PhoneContact(v))
	}
	for _, v := range c.WhatsApp {
		s.WhatsApp = append(s.WhatsApp, domain.WhatsAppContact(v))
	}
	for _, v := range c.Emails {
		s.Emails = append(s.Emails, domain.EmailContact(v))
	}
	for _, v := range c.Addresses {
		s.Addresses = append(s.Addresses, domain.AddressContact(v))
	}
	return s
}

func toInstagramConfig(c domain.InstagramConfig) InstagramConfig {
	reels := c.ReelIDs
	if reels == nil {
		reels = []string{}
	}
	return InstagramConfig{
		Username:   c.Username,
		ProfileURL: c.ProfileURL,
		ReelIDs:    reels,
		UpdatedAt:  timeOrNil(c.UpdatedAt),
	}
}

func (c InstagramConfig) toDomain() domain.InstagramConfig {
	return domain.InstagramConfig{
		Username:   c.Username,
		ProfileURL: c.ProfileURL,
		ReelIDs:    c.ReelIDs,
	}
}
