/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the ledger domain model
  from the external contract. Amounts travel as decimal strings; dates as
  YYYY-MM-DD.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  DTOs are pure data carriers. Parsing into domain types happens in the
  handlers; business validation happens in the ledger engine.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/smartcash/shift-ledger/ledger"
)

// =============================================================================
// SHIFTS
// =============================================================================

// BreakdownDTO mirrors ledger.PaymentBreakdown with decimal-string amounts.
type BreakdownDTO struct {
	CRDB         decimal.Decimal `json:"crdb"`
	Stanbic      decimal.Decimal `json:"stanbic"`
	MPesa        decimal.Decimal `json:"mpesa"`
	SignedBill   decimal.Decimal `json:"signed_bill"`
	Discount     decimal.Decimal `json:"discount"`
	Cancellation decimal.Decimal `json:"cancellation"`
}

func (b BreakdownDTO) toDomain() ledger.PaymentBreakdown {
	return ledger.PaymentBreakdown{
		CRDB:         b.CRDB,
		Stanbic:      b.Stanbic,
		MPesa:        b.MPesa,
		SignedBill:   b.SignedBill,
		Discount:     b.Discount,
		Cancellation: b.Cancellation,
	}
}

func breakdownDTO(b ledger.PaymentBreakdown) BreakdownDTO {
	return BreakdownDTO{
		CRDB:         b.CRDB,
		Stanbic:      b.Stanbic,
		MPesa:        b.MPesa,
		SignedBill:   b.SignedBill,
		Discount:     b.Discount,
		Cancellation: b.Cancellation,
	}
}

// CloseShiftRequest is the cashier's shift close-out entry.
type CloseShiftRequest struct {
	WaiterName         string          `json:"waiter_name"`
	Date               string          `json:"date"`
	TotalSales         decimal.Decimal `json:"total_sales"`
	Breakdown          BreakdownDTO    `json:"breakdown"`
	OverpaymentMethod  string          `json:"overpayment_method,omitempty"`
	OverpaymentRemarks string          `json:"overpayment_remarks,omitempty"`
}

// ShiftRecordDTO is an immutable closed shift.
type ShiftRecordDTO struct {
	ID                 string          `json:"id"`
	WaiterName         string          `json:"waiter_name"`
	Date               string          `json:"date"`
	TotalSales         decimal.Decimal `json:"total_sales"`
	Breakdown          BreakdownDTO    `json:"breakdown"`
	CalculatedCash     decimal.Decimal `json:"calculated_cash"`
	OverpaymentAmount  decimal.Decimal `json:"overpayment_amount"`
	OverpaymentMethod  string          `json:"overpayment_method,omitempty"`
	OverpaymentRemarks string          `json:"overpayment_remarks,omitempty"`
	CreatedAt          string          `json:"created_at"`
}

func shiftRecordDTO(r ledger.ShiftRecord) ShiftRecordDTO {
	return ShiftRecordDTO{
		ID:                 r.ID,
		WaiterName:         r.WaiterName,
		Date:               r.Date.String(),
		TotalSales:         r.TotalSales,
		Breakdown:          breakdownDTO(r.Breakdown),
		CalculatedCash:     r.CalculatedCash,
		OverpaymentAmount:  r.OverpaymentAmount,
		OverpaymentMethod:  r.OverpaymentMethod,
		OverpaymentRemarks: r.OverpaymentRemarks,
		CreatedAt:          r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// DAYS
// =============================================================================

// DaySummaryDTO is the cashier's end-of-day view.
type DaySummaryDTO struct {
	Date          string           `json:"date"`
	Closed        bool             `json:"closed"`
	CreditStatus  string           `json:"credit_status"`
	Totals        TotalsDTO        `json:"totals"`
	Repayments    RepaymentsDTO    `json:"repayments"`
	CashOnHand    decimal.Decimal  `json:"cash_on_hand"`
	ShiftRecords  []ShiftRecordDTO `json:"shift_records"`
}

// TotalsDTO mirrors ledger.Totals.
type TotalsDTO struct {
	Sales        decimal.Decimal `json:"sales"`
	Cash         decimal.Decimal `json:"cash"`
	CRDB         decimal.Decimal `json:"crdb"`
	Stanbic      decimal.Decimal `json:"stanbic"`
	MPesa        decimal.Decimal `json:"mpesa"`
	SignedBill   decimal.Decimal `json:"signed_bill"`
	Discount     decimal.Decimal `json:"discount"`
	Cancellation decimal.Decimal `json:"cancellation"`
	Overpayments decimal.Decimal `json:"overpayments"`
}

func totalsDTO(t ledger.Totals) TotalsDTO {
	return TotalsDTO{
		Sales:        t.Sales,
		Cash:         t.Cash,
		CRDB:         t.CRDB,
		Stanbic:      t.Stanbic,
		MPesa:        t.MPesa,
		SignedBill:   t.SignedBill,
		Discount:     t.Discount,
		Cancellation: t.Cancellation,
		Overpayments: t.Overpayments,
	}
}

// RepaymentsDTO mirrors ledger.RepaymentTotals.
type RepaymentsDTO struct {
	Cash    decimal.Decimal `json:"cash"`
	MPesa   decimal.Decimal `json:"mpesa"`
	Stanbic decimal.Decimal `json:"stanbic"`
	CRDB    decimal.Decimal `json:"crdb"`
	Total   decimal.Decimal `json:"total"`
}

func repaymentsDTO(t ledger.RepaymentTotals) RepaymentsDTO {
	return RepaymentsDTO{
		Cash:    t.Cash,
		MPesa:   t.MPesa,
		Stanbic: t.Stanbic,
		CRDB:    t.CRDB,
		Total:   t.Total(),
	}
}

// NextDayDTO is returned when the next day opens.
type NextDayDTO struct {
	NextDate string `json:"next_date"`
}

// =============================================================================
// CREDIT (SIGNED BILLS)
// =============================================================================

// RecordCreditLineRequest itemizes credit against a customer.
type RecordCreditLineRequest struct {
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
}

// SignedBillEntryDTO is a credit ledger line.
type SignedBillEntryDTO struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
}

func signedBillDTO(e ledger.SignedBillEntry) SignedBillEntryDTO {
	return SignedBillEntryDTO{
		ID:           e.ID,
		Date:         e.Date.String(),
		CustomerID:   e.CustomerID,
		CustomerName: e.CustomerName,
		Amount:       e.Amount,
	}
}

// CreditLedgerDTO is the per-date credit reconciliation view.
type CreditLedgerDTO struct {
	Date      string               `json:"date"`
	Status    string               `json:"status"`
	Target    decimal.Decimal      `json:"target"`
	Entered   decimal.Decimal      `json:"entered"`
	Remaining decimal.Decimal      `json:"remaining"`
	Entries   []SignedBillEntryDTO `json:"entries"`
}

// =============================================================================
// REPAYMENTS (PAID BILLS)
// =============================================================================

// RecordRepaymentRequest records one debt repayment.
type RecordRepaymentRequest struct {
	Date               string          `json:"date"`
	PayerType          string          `json:"payer_type"`
	PayerName          string          `json:"payer_name"`
	ReceivedFromWaiter string          `json:"received_from_waiter"`
	Amount             decimal.Decimal `json:"amount"`
	Method             string          `json:"method"`
}

// PaidBillEntryDTO is a repayment line.
type PaidBillEntryDTO struct {
	ID                 string          `json:"id"`
	Date               string          `json:"date"`
	PayerType          string          `json:"payer_type"`
	PayerName          string          `json:"payer_name"`
	ReceivedFromWaiter string          `json:"received_from_waiter"`
	Amount             decimal.Decimal `json:"amount"`
	Method             string          `json:"method"`
	CreatedAt          string          `json:"created_at"`
}

func paidBillDTO(e ledger.PaidBillEntry) PaidBillEntryDTO {
	return PaidBillEntryDTO{
		ID:                 e.ID,
		Date:               e.Date.String(),
		PayerType:          string(e.PayerType),
		PayerName:          e.PayerName,
		ReceivedFromWaiter: e.ReceivedFromWaiter,
		Amount:             e.Amount,
		Method:             string(e.Method),
		CreatedAt:          e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// ROSTER
// =============================================================================

// RegisterAttendantRequest adds a waiter to the roster.
type RegisterAttendantRequest struct {
	Name string `json:"name"`
}

// AttendantDTO is a roster entry.
type AttendantDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func attendantDTO(a ledger.Attendant) AttendantDTO {
	return AttendantDTO{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// AttendantStatusDTO is the derived per-date roster status.
type AttendantStatusDTO struct {
	Attendant AttendantDTO    `json:"attendant"`
	Status    string          `json:"status"`
	Sales     decimal.Decimal `json:"sales"`
}

// CustomerDTO is a registered credit customer.
type CustomerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func customerDTO(c ledger.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// REPORTS
// =============================================================================

// RangeReportDTO is the finance range view: aggregate totals plus the
// recovered-debt total over [from, to].
type RangeReportDTO struct {
	From           string          `json:"from"`
	To             string          `json:"to"`
	Totals         TotalsDTO       `json:"totals"`
	Repayments     RepaymentsDTO   `json:"repayments"`
	RecoveredDebts decimal.Decimal `json:"recovered_debts"`
}

// ErrorDTO is the uniform error envelope.
type ErrorDTO struct {
	Error string   `json:"error"`
	Dates []string `json:"dates,omitempty"` // set for unreconciled-prior-day failures
}
