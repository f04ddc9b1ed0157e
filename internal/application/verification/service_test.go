package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dating-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, v *domain.PhoneVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockStore) Get(ctx context.Context, phone string) (*domain.PhoneVerification, error) {
	args := m.Called(ctx, phone)
	if v, _ := args.Get(0).(*domain.PhoneVerification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	args := m.Called(ctx, phone)
	return args.Int(0), args.Error(1)
}
func (m *mockStore) SetMessageID(ctx context.Context, phone, messageID string) error {
	return m.Called(ctx, phone, messageID).Error(0)
}
func (m *mockStore) Delete(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}
func (m *mockStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) Send(ctx context.Context, to, message string) (string, error) {
	args := m.Called(ctx, to, message)
	return args.String(0), args.Error(1)
}

// --- helpers ---

const canonicalAT = "+436601234567"

func newService(st *mockStore, acc *mockAccounts, sms *mockSMS) Service {
	return NewService(ServiceDeps{
		Store:       st,
		Accounts:    acc,
		SMS:         sms,
		Window:      10 * time.Minute,
		MaxAttempts: 3,
	})
}

func pendingRow(code string, attempts int) *domain.PhoneVerification {
	now := time.Now().UTC()
	return &domain.PhoneVerification{
		PhoneNumber: canonicalAT,
		CountryCode: "AT",
		Code:        code,
		Attempts:    attempts,
		MaxAttempts: 3,
		CreatedAt:   now,
		ExpiresAt:   now.Add(10 * time.Minute).Unix(),
	}
}

// --- RequestCode tests ---

func TestRequestCode_UnsupportedCountry_NoSideEffects(t *testing.T) {
	st := &mockStore{}
	acc := &mockAccounts{}
	sms := &mockSMS{}

	svc := newService(st, acc, sms)
	_, err := svc.RequestCode(context.Background(), "660 123 4567", "US")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestCode_AlreadyRegistered(t *testing.T) {
	acc := &mockAccounts{}
	acc.On("GetByPhone", mock.Anything, canonicalAT).Return(&domain.User{UserID: "u1"}, nil)

	svc := newService(&mockStore{}, acc, &mockSMS{})
	_, err := svc.RequestCode(context.Background(), "660 123-4567", "AT")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyRegistered))
	acc.AssertExpectations(t)
}

func TestRequestCode_HappyPath(t *testing.T) {
	st := &mockStore{}
	acc := &mockAccounts{}
	sms := &mockSMS{}
	acc.On("GetByPhone", mock.Anything, canonicalAT).Return(nil, domain.ErrNotFound)
	st.On("Put", mock.Anything, mock.AnythingOfType("*domain.PhoneVerification")).Return(nil)
	sms.On("Send", mock.Anything, canonicalAT, mock.Anything).Return("msg-123", nil)
	st.On("SetMessageID", mock.Anything, canonicalAT, "msg-123").Return(nil)

	svc := newService(st, acc, sms)
	canonical, err := svc.RequestCode(context.Background(), "660 123-4567", "AT")

	require.NoError(t, err)
	assert.Equal(t, canonicalAT, canonical)

	put := st.Calls[0].Arguments.Get(1).(*domain.PhoneVerification)
	assert.Equal(t, canonicalAT, put.PhoneNumber)
	assert.Len(t, put.Code, 6)
	assert.Equal(t, 0, put.Attempts)
	assert.Equal(t, 3, put.MaxAttempts)
	assert.Greater(t, put.ExpiresAt, time.Now().UTC().Unix())
	st.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestRequestCode_DispatchFailure_RollsBack(t *testing.T) {
	st := &mockStore{}
	acc := &mockAccounts{}
	sms := &mockSMS{}
	acc.On("GetByPhone", mock.Anything, canonicalAT).Return(nil, domain.ErrNotFound)
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	sms.On("Send", mock.Anything, canonicalAT, mock.Anything).Return("", errors.New("sns unavailable"))
	st.On("Delete", mock.Anything, canonicalAT).Return(nil)

	svc := newService(st, acc, sms)
	_, err := svc.RequestCode(context.Background(), "6601234567", "AT")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDispatch))
	st.AssertCalled(t, "Delete", mock.Anything, canonicalAT)
}

func TestRequestCode_NoSenderConfigured(t *testing.T) {
	st := &mockStore{}
	acc := &mockAccounts{}
	acc.On("GetByPhone", mock.Anything, canonicalAT).Return(nil, domain.ErrNotFound)

	svc := NewService(ServiceDeps{
		Store:       st,
		Accounts:    acc,
		Window:      10 * time.Minute,
		MaxAttempts: 3,
	})
	_, err := svc.RequestCode(context.Background(), "6601234567", "AT")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDispatch))
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRequestCode_MessageIDRecordFailure_IsNotFatal(t *testing.T) {
	st := &mockStore{}
	acc := &mockAccounts{}
	sms := &mockSMS{}
	acc.On("GetByPhone", mock.Anything, canonicalAT).Return(nil, domain.ErrNotFound)
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	sms.On("Send", mock.Anything, canonicalAT, mock.Anything).Return("msg-123", nil)
	st.On("SetMessageID", mock.Anything, canonicalAT, "msg-123").Return(errors.New("dynamo error"))

	svc := newService(st, acc, sms)
	canonical, err := svc.RequestCode(context.Background(), "6601234567", "AT")

	require.NoError(t, err)
	assert.Equal(t, canonicalAT, canonical)
}

// --- CheckCode tests ---

func TestCheckCode_NoPendingRequest(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, canonicalAT).Return(nil, domain.ErrNotFound)

	svc := newService(st, &mockAccounts{}, &mockSMS{})
	_, err := svc.CheckCode(context.Background(), "6601234567", "AT", "483920")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckCode_ExpiredBeatsCorrectCode(t *testing.T) {
	row := pendingRow("483920", 0)
	row.ExpiresAt = time.Now().UTC().Add(-time.Minute).Unix()
	st := &mockStore{}
	st.On("Get", mock.Anything, canonicalAT).Return(row, nil)

	svc := newService(st, &mockAccounts{}, &mockSMS{})
	_, err := svc.CheckCode(context.Background(), "6601234567", "AT", "483920")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeExpired))
	st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckCode_ExhaustedBeatsCorrectCode(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, canonicalAT).Return(pendingRow("483920", 3), nil)

	svc := newService(st, &mockAccounts{}, &mockSMS{})
	_, err := svc.CheckCode(context.Background(), "6601234567", "AT", "483920")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAttemptsExhausted))
	st.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckCode_WrongCode_ReportsAttemptsRemaining(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, canonicalAT).Return(pendingRow("483920", 0), nil)
	st.On("IncrementAttempts", mock.Anything, canonicalAT).Return(1, nil)

	svc := newService(st, &mockAccounts{}, &mockSMS{})
	_, err := svc.CheckCode(context.Background(), "6601234567", "AT", "000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeInvalid))
	var invalid *InvalidCodeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 2, invalid.AttemptsRemaining)
	st.AssertExpectations(t)
}

func TestCheckCode_CorrectCode_ConsumesRow(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, canonicalAT).Return(pendingRow("483920", 1), nil)
	st.On("Delete", mock.Anything, canonicalAT).Return(nil)

	svc := newService(st, &mockAccounts{}, &mockSMS{})
	canonical, err := svc.CheckCode(context.Background(), "660 123 4567", "AT", "483920")

	require.NoError(t, err)
	assert.Equal(t, canonicalAT, canonical)
	st.AssertCalled(t, "Delete", mock.Anything, canonicalAT)
}

// Full lifecycle of a single issuance: wrong code, then correct code, then
// a replay of the correct code after consumption.
func TestCheckCode_Lifecycle(t *testing.T) {
	st := &mockStore{}
	svc := newService(st, &mockAccounts{}, &mockSMS{})
	ctx := context.Background()

	row := pendingRow("483920", 0)
	st.On("Get", mock.Anything, canonicalAT).Return(row, nil).Once()
	st.On("IncrementAttempts", mock.Anything, canonicalAT).Return(1, nil).Once()

	_, err := svc.CheckCode(ctx, "6601234567", "AT", "000000")
	var invalid *InvalidCodeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 2, invalid.AttemptsRemaining)

	row2 := pendingRow("483920", 1)
	st.On("Get", mock.Anything, canonicalAT).Return(row2, nil).Once()
	st.On("Delete", mock.Anything, canonicalAT).Return(nil).Once()

	canonical, err := svc.CheckCode(ctx, "6601234567", "AT", "483920")
	require.NoError(t, err)
	assert.Equal(t, canonicalAT, canonical)

	st.On("Get", mock.Anything, canonicalAT).Return(nil, domain.ErrNotFound).Once()

	_, err = svc.CheckCode(ctx, "6601234567", "AT", "483920")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	st.AssertExpectations(t)
}

// --- Countries ---

func TestCountries_ReturnsAllowList(t *testing.T) {
	svc := newService(&mockStore{}, &mockAccounts{}, &mockSMS{})
	countries := svc.Countries()

	require.Len(t, countries, 3)
	codes := make(map[string]bool)
	for _, c := range countries {
		codes[c.Code] = true
	}
	assert.True(t, codes["DE"] && codes["AT"] && codes["CH"])
}

// --- Sweeper ---

func TestRunSweeper_StopsOnContextCancel(t *testing.T) {
	st := &mockStore{}
	st.On("SweepExpired", mock.Anything, mock.Anything).Return(2, nil)

	svc := newService(st, &mockAccounts{}, &mockSMS{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancel")
	}
	st.AssertCalled(t, "SweepExpired", mock.Anything, mock.Anything)
}
