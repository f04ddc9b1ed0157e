package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dating-api/internal/application/verification"
	"github.com/dating-api/internal/pkg/validate"
)

// VerificationHandler handles the phone verification endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

type requestCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	CountryCode string `json:"country_code" validate:"required"`
}

type checkCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	CountryCode string `json:"country_code" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

type verificationResponse struct {
	Success     bool   `json:"success"`
	PhoneNumber string `json:"phone_number"`
}

// RequestCode issues a verification code and sends it by SMS. The response
// echoes the canonical phone, never the code.
func (h *VerificationHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	canonical, err := h.svc.RequestCode(r.Context(), req.PhoneNumber, req.CountryCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verificationResponse{Success: true, PhoneNumber: canonical})
}

// CheckCode validates a submitted code against the pending request.
func (h *VerificationHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	var req checkCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	canonical, err := h.svc.CheckCode(r.Context(), req.PhoneNumber, req.CountryCode, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verificationResponse{Success: true, PhoneNumber: canonical})
}

// ResendCode issues a fresh code, discarding any pending one.
func (h *VerificationHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	h.RequestCode(w, r)
}

// Countries lists the supported dialing regions.
func (h *VerificationHandler) Countries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"countries": h.svc.Countries()})
}
