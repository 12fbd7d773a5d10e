package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/finsight/analyzer/internal/service"
)

// maxUploadBytes caps document uploads at 15 MB.
const maxUploadBytes = 15 << 20

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDocument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	case strings.Contains(err.Error(), "not found"):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// readDocument pulls the uploaded document out of a multipart form (field
// "document") or a raw request body.
func readDocument(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("document")
		if err != nil {
			return nil, fmt.Errorf("missing document field: %w", err)
		}
		defer file.Close()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}

// AnalyzeCreditReport handles a CIBIL report PDF upload
func (h *Handler) AnalyzeCreditReport(w http.ResponseWriter, r *http.Request) {
	document, err := readDocument(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.svc.AnalyzeCreditReport(r.Context(), document)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AnalyzeStatement handles a bank statement upload (PDF or camt.053 XML)
func (h *Handler) AnalyzeStatement(w http.ResponseWriter, r *http.Request) {
	document, err := readDocument(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := h.svc.AnalyzeStatement(r.Context(), document)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// GetCreditReport returns the stored credit report
func (h *Handler) GetCreditReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetCreditReport(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetAccountSummary returns derived account totals
func (h *Handler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetAccountSummary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func windowParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return 12, nil
	}
	window, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q", raw)
	}
	return window, nil
}

// GetDpdAnalysis returns the DPD tally for the selected window
func (h *Handler) GetDpdAnalysis(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tally, err := h.svc.GetDpdTally(r.Context(), window)
	if err != nil {
		if strings.Contains(err.Error(), "invalid window") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tally)
}

// GetBehaviorAnalysis returns the behavior rating and trend for the
// selected window and optional ownership filter
func (h *Handler) GetBehaviorAnalysis(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := h.svc.GetBehaviorAnalysis(r.Context(), window, r.URL.Query().Get("ownership"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid window") || strings.Contains(err.Error(), "unknown ownership") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// GetTransactions returns the user's transactions
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.svc.GetTransactions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// GetSpendingStats returns dashboard totals and spending breakdowns
func (h *Handler) GetSpendingStats(w http.ResponseWriter, r *http.Request) {
	spending, err := h.svc.GetSpendingStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spending)
}

// CategorizeTransactions runs AI categorization over uncategorized
// transactions
func (h *Handler) CategorizeTransactions(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CategorizeTransactions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ClearData removes the user's stored transactions and report
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearData(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
