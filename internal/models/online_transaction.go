package models

import "time"

// Online transaction lifecycle states.
const (
	OnlineTxStatusCreated = "created"
	OnlineTxStatusSuccess = "success"
	OnlineTxStatusFailed  = "failed"
)

// OnlineTransaction tracks a Razorpay order raised against a customer's due.
type OnlineTransaction struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customerId"`
	OrderID       string    `json:"orderId"`
	PaymentID     string    `json:"paymentId,omitempty"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateOrderRequest struct {
	Amount FlexNumber `json:"amount"`
}

type CreateOrderResponse struct {
	OrderID  string  `json:"orderId"`
	Amount   int     `json:"amount"` // paise
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId"`
	Customer *Party  `json:"customer"`
	Due      float64 `json:"due"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// TOTPSetupResponse carries the provisioning secret and QR for an admin
// enabling two-factor login.
type TOTPSetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
	QRCode     string `json:"qrCode"` // PNG data URI
}
