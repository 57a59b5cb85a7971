package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"sadhna-backend/internal/services"
	"sadhna-backend/internal/timeutil"
	"sadhna-backend/pkg/utils"
)

type PayrollHandler struct {
	Service *services.PayrollService
}

func NewPayrollHandler(s *services.PayrollService) *PayrollHandler {
	return &PayrollHandler{Service: s}
}

// GeneratePayslip returns the PDF payslip of one employee for ?month=&year=
func (h *PayrollHandler) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeId")
	if !ok {
		return
	}
	month, year, ok := monthYear(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.Calculate(r.Context(), id, month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	pdf, err := h.Service.GeneratePayslipPDF(summary)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%d-%d-%02d.pdf"`, id, year, month))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *PayrollHandler) MyPay(w http.ResponseWriter, r *http.Request) {
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}

	summary, err := h.Service.MyPay(r.Context(), callerFrom(r).UserID, month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// monthYear reads ?month=&year=, defaulting each to the current IST value.
func monthYear(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	month, ok := queryInt(w, r, "month")
	if !ok {
		return 0, 0, false
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return 0, 0, false
	}
	now := timeutil.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year, true
}
