package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dating-api/internal/application/verification"
	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/pkg/phone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) RequestCode(ctx context.Context, rawNumber, countryCode string) (string, error) {
	args := m.Called(ctx, rawNumber, countryCode)
	return args.String(0), args.Error(1)
}

func (m *mockVerificationSvc) CheckCode(ctx context.Context, rawNumber, countryCode, code string) (string, error) {
	args := m.Called(ctx, rawNumber, countryCode, code)
	return args.String(0), args.Error(1)
}

func (m *mockVerificationSvc) Countries() []phone.Country {
	return m.Called().Get(0).([]phone.Country)
}

func (m *mockVerificationSvc) RunSweeper(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func postJSON(target string, v interface{}) *http.Request {
	body, _ := json.Marshal(v)
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
}

// --- RequestCode tests ---

func TestRequestCode_InvalidBody(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/verification/request", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.RequestCode(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestCode_MissingCountry(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	r := postJSON("/v1/verification/request", map[string]string{"phone_number": "0660 1234567"})
	rr := httptest.NewRecorder()
	h.RequestCode(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestCode_AlreadyRegistered(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "0660 1234567", "AT").
		Return("", fmt.Errorf("phone number already registered: %w", domain.ErrAlreadyRegistered))
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/request", map[string]string{"phone_number": "0660 1234567", "country_code": "AT"})
	rr := httptest.NewRecorder()
	h.RequestCode(rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
	svc.AssertExpectations(t)
}

func TestRequestCode_DispatchFailure(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "0660 1234567", "AT").
		Return("", fmt.Errorf("sms dispatch failed: %w", domain.ErrDispatch))
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/request", map[string]string{"phone_number": "0660 1234567", "country_code": "AT"})
	rr := httptest.NewRecorder()
	h.RequestCode(rr, r)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	svc.AssertExpectations(t)
}

func TestRequestCode_HappyPath_NeverLeaksCode(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestCode", mock.Anything, "0660 1234567", "AT").Return("+436601234567", nil)
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/request", map[string]string{"phone_number": "0660 1234567", "country_code": "AT"})
	rr := httptest.NewRecorder()
	h.RequestCode(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "+436601234567", resp["phone_number"])
	_, hasCode := resp["code"]
	assert.False(t, hasCode, "response must not contain the verification code")
	svc.AssertExpectations(t)
}

// --- CheckCode tests ---

func TestCheckCode_RejectsNonNumericCode(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	r := postJSON("/v1/verification/check", map[string]string{
		"phone_number": "0660 1234567", "country_code": "AT", "code": "12a456",
	})
	rr := httptest.NewRecorder()
	h.CheckCode(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckCode_RejectsShortCode(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	r := postJSON("/v1/verification/check", map[string]string{
		"phone_number": "0660 1234567", "country_code": "AT", "code": "123",
	})
	rr := httptest.NewRecorder()
	h.CheckCode(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckCode_NoPendingRequest(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("CheckCode", mock.Anything, "0660 1234567", "AT", "483920").Return("", domain.ErrNotFound)
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/check", map[string]string{
		"phone_number": "0660 1234567", "country_code": "AT", "code": "483920",
	})
	rr := httptest.NewRecorder()
	h.CheckCode(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	svc.AssertExpectations(t)
}

func TestCheckCode_Expired(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("CheckCode", mock.Anything, "0660 1234567", "AT", "483920").
		Return("", fmt.Errorf("verification code expired: %w", domain.ErrCodeExpired))
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/check", map[string]string{
		"phone_number": "0660 1234567", "country_code": "AT", "code": "483920",
	})
	rr := httptest.NewRecorder()
	h.CheckCode(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertExpectations(t)
}

func TestCheckCode_WrongCode_ReportsAttemptsRemaining(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("CheckCode", mock.Anything, "0660 1234567", "AT", "000000").
		Return("", &verification.InvalidCodeError{AttemptsRemaining: 2})
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/check", map[string]string{
		"phone_number": "0660 1234567", "country_code": "AT", "code": "000000",
	})
	rr := httptest.NewRecorder()
	h.CheckCode(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp struct {
		Success           bool   `json:"success"`
		Error             string `json:"error"`
		AttemptsRemaining *int   `json:"attempts_remaining"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.AttemptsRemaining)
	assert.Equal(t, 2, *resp.AttemptsRemaining)
	svc.AssertExpectations(t)
}

func TestCheckCode_HappyPath(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("CheckCode", mock.Anything, "0660 1234567", "AT", "483920").Return("+436601234567", nil)
	h := NewVerificationHandler(svc)

	r := postJSON("/v1/verification/check", map[string]string{
		"phone_number": "0660 1234567", "country_code": "AT", "code": "483920",
	})
	rr := httptest.NewRecorder()
	h.CheckCode(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp verificationResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "+436601234567", resp.PhoneNumber)
	svc.AssertExpectations(t)
}

// --- Countries ---

func TestCountries_ListsSupportedRegions(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Countries").Return(phone.Countries())
	h := NewVerificationHandler(svc)

	r := httptest.NewRequest(http.MethodGet, "/v1/verification/countries", nil)
	rr := httptest.NewRecorder()
	h.Countries(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Countries []phone.Country `json:"countries"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	codes := make([]string, 0, len(resp.Countries))
	for _, c := range resp.Countries {
		codes = append(codes, c.Code)
	}
	assert.ElementsMatch(t, []string{"DE", "AT", "CH"}, codes)
	svc.AssertExpectations(t)
}
