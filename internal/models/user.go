package models

import (
	"encoding/json"
	"time"
)

// Roles and work statuses for the single role-discriminated user record.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	WorkStatusPending   = "pending"
	WorkStatusOngoing   = "ongoing"
	WorkStatusCompleted = "completed"
)

// Material is the canonical shape every materials input is normalized into.
// Cost is only meaningful when the admin purchased the material.
type Material struct {
	Name             string   `json:"name"`
	Cost             *float64 `json:"cost"`
	PurchasedByAdmin bool     `json:"purchasedByAdmin"`
}

// PaymentEntry is one row of a customer's payment history.
type PaymentEntry struct {
	Date        Date    `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type User struct {
	ID                 int64          `json:"id"`
	Name               string         `json:"name"`
	Username           string         `json:"username"` // stored lowercase, immutable
	PasswordHash       string         `json:"-"`
	Mobile             string         `json:"mobile"`
	Area               string         `json:"area"`
	Address            string         `json:"address"`
	Role               string         `json:"role"`
	WorkStatus         string         `json:"workStatus"`
	JobDetail          string         `json:"jobDetail"`
	TotalAmount        float64        `json:"totalAmount"`
	PaymentPaid        float64        `json:"paymentPaid"`
	PaymentDue         float64        `json:"paymentDue"`
	PaymentHistory     []PaymentEntry `json:"paymentHistory"`
	DueDate            *Date          `json:"dueDate"`
	CompletionStatus   string         `json:"completionStatus"`
	Materials          []Material     `json:"materials"`
	MaterialsTotalCost float64        `json:"materialsTotalCost"`
	HousePhoto         []byte         `json:"-"`
	OwnerPhoto         []byte         `json:"-"`
	TOTPSecret         string         `json:"-"`
	TOTPEnabled        bool           `json:"-"`
	IsActive           bool           `json:"isActive"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// PaymentStatus derives the coarse payment label used by list views.
func (u *User) PaymentStatus() string {
	switch {
	case u.PaymentDue == 0:
		return "paid"
	case u.PaymentPaid == 0:
		return "unpaid"
	default:
		return "partial"
	}
}

// UserResponse is the transport view of a record: photos re-encoded as data
// URIs, payment status derived.
type UserResponse struct {
	User
	HousePhoto    string `json:"housePhoto,omitempty"`
	OwnerPhoto    string `json:"ownerPhoto,omitempty"`
	PaymentStatus string `json:"paymentStatus"`
}

func (u *User) Response() *UserResponse {
	resp := &UserResponse{
		User:          *u,
		PaymentStatus: u.PaymentStatus(),
	}
	if len(u.HousePhoto) > 0 {
		resp.HousePhoto = EncodePhoto(u.HousePhoto)
	}
	if len(u.OwnerPhoto) > 0 {
		resp.OwnerPhoto = EncodePhoto(u.OwnerPhoto)
	}
	if resp.PaymentHistory == nil {
		resp.PaymentHistory = []PaymentEntry{}
	}
	if resp.Materials == nil {
		resp.Materials = []Material{}
	}
	return resp
}

// PaymentInput is a raw client-submitted payment history entry.
type PaymentInput struct {
	Date        string     `json:"date"`
	Amount      FlexNumber `json:"amount"`
	Description string     `json:"description"`
}

// CreateCustomerRequest carries the raw, possibly legacy-shaped payload for
// customer creation. Materials stays raw JSON until normalization.
type CreateCustomerRequest struct {
	Name             string          `json:"name"`
	Username         string          `json:"username"`
	Password         string          `json:"password"`
	Mobile           string          `json:"mobile"`
	Area             string          `json:"area"`
	Address          string          `json:"address"`
	WorkStatus       string          `json:"workStatus"`
	JobDetail        string          `json:"jobDetail"`
	TotalAmount      FlexNumber      `json:"totalAmount"`
	PaymentPaid      FlexNumber      `json:"paymentPaid"`
	PaymentDue       FlexNumber      `json:"paymentDue"`
	DueDate          string          `json:"dueDate"`
	CompletionStatus string          `json:"completionStatus"`
	Materials        json.RawMessage `json:"materials"`
	HousePhoto       string          `json:"housePhoto"`
	OwnerPhoto       string          `json:"ownerPhoto"`
	PaymentHistory   []PaymentInput  `json:"paymentHistory"`
}

// UpdateCustomerRequest is a partial patch; nil means "field not supplied".
type UpdateCustomerRequest struct {
	Name             *string         `json:"name"`
	Mobile           *string         `json:"mobile"`
	Area             *string         `json:"area"`
	Address          *string         `json:"address"`
	WorkStatus       *string         `json:"workStatus"`
	JobDetail        *string         `json:"jobDetail"`
	TotalAmount      *FlexNumber     `json:"totalAmount"`
	PaymentPaid      *FlexNumber     `json:"paymentPaid"`
	PaymentDue       *FlexNumber     `json:"paymentDue"`
	DueDate          *string         `json:"dueDate"`
	CompletionStatus *string         `json:"completionStatus"`
	Materials        json.RawMessage `json:"materials"`
	HousePhoto       *string         `json:"housePhoto"`
	OwnerPhoto       *string         `json:"ownerPhoto"`
	PaymentHistory   *[]PaymentInput `json:"paymentHistory"`
}

// AddPaymentRequest records a single new payment against a customer.
type AddPaymentRequest struct {
	Amount      FlexNumber `json:"amount"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
}

// ListCustomersQuery holds list filters parsed from the query string.
type ListCustomersQuery struct {
	Page       int
	Limit      int
	Search     string
	WorkStatus string
	Area       string
	SortBy     string
	SortOrder  string
}

// Pagination is the metadata block returned with customer pages.
type Pagination struct {
	Current int  `json:"current"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// CustomerStats aggregates active customers by work status and money.
type CustomerStats struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalOngoing   int     `json:"totalOngoing"`
	TotalCompleted int     `json:"totalCompleted"`
	TotalPending   int     `json:"totalPending"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalDue       float64 `json:"totalDue"`
	AvgPayment     float64 `json:"avgPayment"`
}

// AreaStat is one row of the top-area breakdown.
type AreaStat struct {
	Area         string  `json:"area"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalDue     float64 `json:"totalDue"`
}

// RegisterRequest creates an admin account (secret-code gated).
type RegisterRequest struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Mobile     string `json:"mobile"`
	SecretCode string `json:"secretCode"`
	Area       string `json:"area"`
	Address    string `json:"address"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Mobile  *string `json:"mobile"`
	Area    *string `json:"area"`
	Address *string `json:"address"`
}

// AuthResponse is returned after login or registration.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
