package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"electric-backend/internal/errs"
	"electric-backend/internal/models"
	"electric-backend/internal/repositories"
)

type RazorpayService struct {
	transactionRepo *repositories.OnlineTransactionRepository
	userRepo        *repositories.UserRepository
	customers       *CustomerService
	keyID           string
	keySecret       string
}

func NewRazorpayService(
	keyID, keySecret string,
	transactionRepo *repositories.OnlineTransactionRepository,
	userRepo *repositories.UserRepository,
	customers *CustomerService,
) *RazorpayService {
	return &RazorpayService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		customers:       customers,
		keyID:           keyID,
		keySecret:       keySecret,
	}
}

// Enabled reports whether Razorpay credentials are configured.
func (s *RazorpayService) Enabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

func (s *RazorpayService) client() *razorpay.Client {
	if !s.Enabled() {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// CreateOrder raises a Razorpay order for a customer paying down their due.
func (s *RazorpayService) CreateOrder(ctx context.Context, customerID int64, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	client := s.client()
	if client == nil {
		return nil, fmt.Errorf("online payments are not configured")
	}

	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Role != models.RoleCustomer {
		return nil, errs.ErrForbidden
	}

	amount := float64(req.Amount)
	if amount <= 0 {
		return nil, errs.Validation("amount is required and must be greater than 0")
	}
	if amount > customer.PaymentDue {
		return nil, errs.Validation("amount cannot exceed the outstanding due")
	}

	// Razorpay amounts are in paise
	amountPaise := int(amount * 100)

	order, err := client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("rcpt_%d_%d", customer.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"customer_id":     customer.ID,
			"customer_mobile": customer.Mobile,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, _ := order["id"].(string)
	tx := &models.OnlineTransaction{
		CustomerID: customer.ID,
		OrderID:    orderID,
		Amount:     amount,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &models.CreateOrderResponse{
		OrderID:  orderID,
		Amount:   amountPaise,
		Currency: "INR",
		KeyID:    s.keyID,
		Customer: &models.Party{
			ID:       customer.ID,
			Name:     customer.Name,
			Username: customer.Username,
			Role:     customer.Role,
			Mobile:   customer.Mobile,
		},
		Due: customer.PaymentDue,
	}, nil
}

// VerifyPayment checks the callback signature and, on the first successful
// verification, folds the amount into the customer's payment history.
func (s *RazorpayService) VerifyPayment(ctx context.Context, customerID int64, req *models.VerifyPaymentRequest) (*models.UserResponse, error) {
	tx, err := s.transactionRepo.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if tx.CustomerID != customerID {
		return nil, errs.ErrForbidden
	}

	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		_ = s.transactionRepo.MarkFailed(ctx, req.RazorpayOrderID, "invalid signature")
		return nil, errs.ErrUnauthorized
	}

	transitioned, err := s.transactionRepo.MarkSuccess(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// Replayed callback; the payment was already folded in.
		return s.customers.Get(ctx, customerID, models.RoleCustomer, customerID)
	}

	user, _, err := s.customers.AddPayment(ctx, customerID, &models.AddPaymentRequest{
		Amount:      models.FlexNumber(tx.Amount),
		Description: "Online payment " + req.RazorpayPaymentID,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Razorpay] Payment %s verified for customer %d (%.2f)", req.RazorpayPaymentID, customerID, tx.Amount)
	return user, nil
}

// ListTransactions returns a customer's online transactions.
func (s *RazorpayService) ListTransactions(ctx context.Context, customerID int64) ([]*models.OnlineTransaction, error) {
	return s.transactionRepo.ListForCustomer(ctx, customerID)
}

// verifySignature checks the Razorpay payment signature
// (HMAC-SHA256 of "order_id|payment_id" with the key secret).
func (s *RazorpayService) verifySignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
