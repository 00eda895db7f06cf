/*
handlers.go - HTTP handlers for the shift-reconciliation ledger

PURPOSE:
  Exposes the ledger engine over REST. Handlers parse and serialize; every
  business rule lives in the ledger package.

ERROR HANDLING:
  Engine failures map to HTTP status by error class:
  - 400: validation errors, malformed dates/amounts
  - 404: unknown resources
  - 409: duplicate names, closed days, finalized ledgers, amount mismatches,
         unreconciled prior days
  - 500: store failures

AUTHORIZATION:
  None here. Role gating (cashier/manager/finance) is the surrounding
  application's concern; the core performs no authorization.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartcash/shift-ledger/ledger"
	"github.com/smartcash/shift-ledger/logger"
)

// Handler holds the engine behind all HTTP handlers.
type Handler struct {
	Engine *ledger.Engine
}

// NewHandler creates a handler backed by the given engine.
func NewHandler(engine *ledger.Engine) *Handler {
	return &Handler{Engine: engine}
}

// =============================================================================
// SHIFTS
// =============================================================================

func (h *Handler) CloseShift(w http.ResponseWriter, r *http.Request) {
	var req CloseShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.Engine.CloseShift(r.Context(), ledger.CloseShiftInput{
		WaiterName:         req.WaiterName,
		Date:               date,
		TotalSales:         req.TotalSales,
		Breakdown:          req.Breakdown.toDomain(),
		OverpaymentMethod:  req.OverpaymentMethod,
		OverpaymentRemarks: req.OverpaymentRemarks,
	})
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shiftRecordDTO(*rec))
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	var (
		records []ledger.ShiftRecord
		err     error
	)
	switch q := r.URL.Query(); {
	case q.Get("date") != "":
		date, perr := ledger.ParseDate(q.Get("date"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		records, err = h.Engine.Store().ShiftRecordsByDate(r.Context(), date)
	case q.Get("from") != "" && q.Get("to") != "":
		from, perr := ledger.ParseDate(q.Get("from"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		to, perr := ledger.ParseDate(q.Get("to"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		records, err = h.Engine.Store().ShiftRecordsInRange(r.Context(), from, to)
	default:
		writeError(w, http.StatusBadRequest, "date or from/to query parameters required")
		return
	}
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	dtos := make([]ShiftRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, shiftRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DAYS
// =============================================================================

func (h *Handler) CloseDay(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Engine.CloseDay(r.Context(), date); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"date": date.String(), "status": "CLOSED"})
}

func (h *Handler) OpenNextDay(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	next, err := h.Engine.OpenNextDay(r.Context(), date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NextDayDTO{NextDate: next.String()})
}

func (h *Handler) DaySummary(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()

	records, err := h.Engine.Store().ShiftRecordsByDate(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	closed, err := h.Engine.Store().IsDayClosed(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	creditStatus, err := h.Engine.CreditStatus(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	repayments, err := h.Engine.RepaymentTotalsFor(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	cashOnHand, err := h.Engine.CashOnHandFor(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	dtos := make([]ShiftRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, shiftRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, DaySummaryDTO{
		Date:         date.String(),
		Closed:       closed,
		CreditStatus: string(creditStatus),
		Totals:       totalsDTO(ledger.SumShiftTotals(records)),
		Repayments:   repaymentsDTO(repayments),
		CashOnHand:   cashOnHand,
		ShiftRecords: dtos,
	})
}

// =============================================================================
// CREDIT (SIGNED BILLS)
// =============================================================================

func (h *Handler) GetCreditLedger(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()

	status, err := h.Engine.CreditStatus(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	target, err := h.Engine.CreditTargetFor(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	entries, err := h.Engine.Store().SignedBillsByDate(ctx, date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	entered := ledger.EnteredCreditTotal(entries)
	dtos := make([]SignedBillEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, signedBillDTO(e))
	}
	writeJSON(w, http.StatusOK, CreditLedgerDTO{
		Date:      date.String(),
		Status:    string(status),
		Target:    target,
		Entered:   entered,
		Remaining: target.Sub(entered),
		Entries:   dtos,
	})
}

func (h *Handler) RecordCreditLine(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req RecordCreditLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Engine.RecordCreditLine(r.Context(), date, req.CustomerName, req.Amount)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, signedBillDTO(*entry))
}

func (h *Handler) FinalizeCreditLedger(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Engine.FinalizeCreditLedger(r.Context(), date); err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"date": date.String(), "status": string(ledger.CreditFinalized)})
}

// =============================================================================
// REPAYMENTS (PAID BILLS)
// =============================================================================

func (h *Handler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	var req RecordRepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.Engine.RecordRepayment(r.Context(), ledger.RecordRepaymentInput{
		Date:               date,
		PayerType:          ledger.PayerType(req.PayerType),
		PayerName:          req.PayerName,
		ReceivedFromWaiter: req.ReceivedFromWaiter,
		Amount:             req.Amount,
		Method:             ledger.PaymentMethod(req.Method),
	})
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, paidBillDTO(*entry))
}

func (h *Handler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.Engine.Store().PaidBillsByDate(r.Context(), date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	dtos := make([]PaidBillEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, paidBillDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ROSTER
// =============================================================================

func (h *Handler) ListAttendants(w http.ResponseWriter, r *http.Request) {
	attendants, err := h.Engine.Store().Attendants(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	dtos := make([]AttendantDTO, 0, len(attendants))
	for _, a := range attendants {
		dtos = append(dtos, attendantDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) RegisterAttendant(w http.ResponseWriter, r *http.Request) {
	var req RegisterAttendantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.Engine.RegisterAttendant(r.Context(), req.Name)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attendantDTO(*a))
}

func (h *Handler) DeleteAttendant(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteAttendant(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RosterStatus(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	statuses, err := h.Engine.RosterStatus(r.Context(), date)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	dtos := make([]AttendantStatusDTO, 0, len(statuses))
	for _, s := range statuses {
		dtos = append(dtos, AttendantStatusDTO{
			Attendant: attendantDTO(s.Attendant),
			Status:    string(s.Status),
			Sales:     s.Sales,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Engine.Store().Customers(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, customerDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORTS
// =============================================================================

func (h *Handler) RangeReport(w http.ResponseWriter, r *http.Request) {
	from, err := ledger.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := ledger.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return
	}
	ctx := r.Context()

	totals, err := h.Engine.RangeTotals(ctx, from, to)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	paid, err := h.Engine.Store().PaidBillsInRange(ctx, from, to)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	repayments := ledger.SumRepayments(paid)
	writeJSON(w, http.StatusOK, RangeReportDTO{
		From:           from.String(),
		To:             to.String(),
		Totals:         totalsDTO(totals),
		Repayments:     repaymentsDTO(repayments),
		RecoveredDebts: repayments.Total(),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorDTO{Error: msg})
}

func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var gate *ledger.UnreconciledPriorDayError
	if errors.As(err, &gate) {
		dates := make([]string, len(gate.Dates))
		for i, d := range gate.Dates {
			dates[i] = d.String()
		}
		writeJSON(w, http.StatusConflict, ErrorDTO{Error: gate.Error(), Dates: dates})
		return
	}

	switch {
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case ledger.IsClientError(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		// Client errors speak for themselves; store failures need a trace.
		log := logger.FromContext(r.Context())
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("engine failure")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
