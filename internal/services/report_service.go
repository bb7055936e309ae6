package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"electric-backend/internal/repositories"
	"electric-backend/internal/timeutil"
)

// ReportService renders customer statements as PDF.
type ReportService struct {
	Repo *repositories.UserRepository
}

func NewReportService(repo *repositories.UserRepository) *ReportService {
	return &ReportService{Repo: repo}
}

// CustomerStatement builds a one-page account statement for a customer.
func (s *ReportService) CustomerStatement(ctx context.Context, customerID int64) ([]byte, string, error) {
	customer, err := s.Repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Electric Buddy - Customer Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Mobile: %s", customer.Mobile), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Area: %s", customer.Area), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Work: %s", customer.WorkStatus), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Materials
	if len(customer.Materials) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Materials", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(100, 7, "Material", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 7, "Cost", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 7, "Supplied By", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, m := range customer.Materials {
			name := m.Name
			if len(name) > 45 {
				name = name[:42] + "..."
			}
			cost := "-"
			supplier := "Customer"
			if m.PurchasedByAdmin {
				supplier = "Electrician"
				if m.Cost != nil {
					cost = fmt.Sprintf("Rs. %.2f", *m.Cost)
				}
			}
			pdf.CellFormat(100, 6, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, cost, "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, 6, supplier, "1", 1, "C", false, 0, "")
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(100, 7, "Materials Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, fmt.Sprintf("Rs. %.2f", customer.MaterialsTotalCost), "1", 1, "R", false, 0, "")
		pdf.Ln(5)
	}

	// Payment History
	if len(customer.PaymentHistory) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(55, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(95, 7, "Description", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range customer.PaymentHistory {
			desc := p.Description
			if len(desc) > 45 {
				desc = desc[:42] + "..."
			}
			pdf.CellFormat(40, 6, p.Date.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(55, 6, fmt.Sprintf("Rs. %.2f", p.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(95, 6, desc, "1", 1, "L", false, 0, "")
		}
		pdf.Ln(5)
	}

	// Financial Summary
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Financial Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total: Rs. %.2f", customer.TotalAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Paid: Rs. %.2f", customer.PaymentPaid), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Materials: Rs. %.2f", customer.MaterialsTotalCost), "1", 1, "C", false, 0, "")

	// Balance, highlighted by state
	if customer.PaymentDue > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("Balance Due: Rs. %.2f", customer.PaymentDue)
	if customer.PaymentDue <= 0 {
		balanceText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("statement_%s_%s.pdf", customer.Username, timeutil.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}
