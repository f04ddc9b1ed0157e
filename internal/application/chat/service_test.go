package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dating-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockMessageStore struct{ mock.Mock }

func (m *mockMessageStore) Put(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *mockMessageStore) ListByMatch(ctx context.Context, matchID string, limit int32) ([]domain.Message, error) {
	args := m.Called(ctx, matchID, limit)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *mockMessageStore) MarkRead(ctx context.Context, matchID, readerID string) error {
	return m.Called(ctx, matchID, readerID).Error(0)
}
func (m *mockMessageStore) UnreadCount(ctx context.Context, matchID, readerID string) (int, error) {
	args := m.Called(ctx, matchID, readerID)
	return args.Int(0), args.Error(1)
}

type mockMatchStore struct{ mock.Mock }

func (m *mockMatchStore) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	args := m.Called(ctx, matchID)
	if mt, _ := args.Get(0).(*domain.Match); mt != nil {
		return mt, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMatchStore) ListByUser(ctx context.Context, userID string) ([]domain.Match, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Match), args.Error(1)
}

type mockHub struct{ mock.Mock }

func (m *mockHub) Broadcast(matchID string, msg *domain.Message) {
	m.Called(matchID, msg)
}

// --- helpers ---

const matchID = "u1#u2"

func activeMatch() *domain.Match {
	return &domain.Match{MatchID: matchID, User1ID: "u1", User2ID: "u2", Active: true}
}

func newService(msgs *mockMessageStore, matches *mockMatchStore, hub *mockHub) Service {
	return NewService(ServiceDeps{MessageRepo: msgs, MatchRepo: matches, Hub: hub})
}

// --- Send tests ---

func TestSend_EmptyContent(t *testing.T) {
	svc := newService(&mockMessageStore{}, &mockMatchStore{}, nil)
	_, err := svc.Send(context.Background(), matchID, "u1", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_ContentTooLong(t *testing.T) {
	svc := newService(&mockMessageStore{}, &mockMatchStore{}, nil)
	_, err := svc.Send(context.Background(), matchID, "u1", strings.Repeat("x", maxContentLength+1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_NonMember(t *testing.T) {
	matches := &mockMatchStore{}
	matches.On("Get", mock.Anything, matchID).Return(activeMatch(), nil)

	svc := newService(&mockMessageStore{}, matches, nil)
	_, err := svc.Send(context.Background(), matchID, "stranger", "hi")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestSend_InactiveMatch(t *testing.T) {
	matches := &mockMatchStore{}
	m := activeMatch()
	m.Active = false
	matches.On("Get", mock.Anything, matchID).Return(m, nil)

	svc := newService(&mockMessageStore{}, matches, nil)
	_, err := svc.Send(context.Background(), matchID, "u1", "hi")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestSend_PersistsAndBroadcasts(t *testing.T) {
	msgs := &mockMessageStore{}
	matches := &mockMatchStore{}
	hub := &mockHub{}
	matches.On("Get", mock.Anything, matchID).Return(activeMatch(), nil)
	msgs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	hub.On("Broadcast", matchID, mock.AnythingOfType("*domain.Message")).Return()

	svc := newService(msgs, matches, hub)
	m, err := svc.Send(context.Background(), matchID, "u1", "hey there")

	require.NoError(t, err)
	assert.Equal(t, "u1", m.SenderID)
	assert.Equal(t, "hey there", m.Content)
	assert.NotEmpty(t, m.MessageID)
	assert.False(t, m.Read)
	msgs.AssertExpectations(t)
	hub.AssertExpectations(t)
}

// --- History tests ---

func TestHistory_NonMember(t *testing.T) {
	matches := &mockMatchStore{}
	matches.On("Get", mock.Anything, matchID).Return(activeMatch(), nil)

	svc := newService(&mockMessageStore{}, matches, nil)
	_, err := svc.History(context.Background(), matchID, "stranger", 50)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestHistory_DefaultsLimit(t *testing.T) {
	msgs := &mockMessageStore{}
	matches := &mockMatchStore{}
	matches.On("Get", mock.Anything, matchID).Return(activeMatch(), nil)
	msgs.On("ListByMatch", mock.Anything, matchID, int32(50)).Return([]domain.Message{}, nil)

	svc := newService(msgs, matches, nil)
	_, err := svc.History(context.Background(), matchID, "u2", 0)

	require.NoError(t, err)
	msgs.AssertExpectations(t)
}

// --- TotalUnread tests ---

func TestTotalUnread_SumsAcrossMatches(t *testing.T) {
	msgs := &mockMessageStore{}
	matches := &mockMatchStore{}
	matches.On("ListByUser", mock.Anything, "u1").Return([]domain.Match{
		{MatchID: "u1#u2", User1ID: "u1", User2ID: "u2", Active: true},
		{MatchID: "u1#u3", User1ID: "u1", User2ID: "u3", Active: true},
	}, nil)
	msgs.On("UnreadCount", mock.Anything, "u1#u2", "u1").Return(3, nil)
	msgs.On("UnreadCount", mock.Anything, "u1#u3", "u1").Return(0, nil)

	svc := newService(msgs, matches, nil)
	total, err := svc.TotalUnread(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	msgs.AssertExpectations(t)
}

func TestTotalUnread_NoMatches(t *testing.T) {
	msgs := &mockMessageStore{}
	matches := &mockMatchStore{}
	matches.On("ListByUser", mock.Anything, "u1").Return([]domain.Match{}, nil)

	svc := newService(msgs, matches, nil)
	total, err := svc.TotalUnread(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	msgs.AssertNotCalled(t, "UnreadCount", mock.Anything, mock.Anything, mock.Anything)
}
