package swipe

import (
	"context"
	"errors"
	"testing"

	"github.com/dating-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSwipeStore struct{ mock.Mock }

func (m *mockSwipeStore) Put(ctx context.Context, s *domain.Swipe) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSwipeStore) Get(ctx context.Context, userID, targetUserID string) (*domain.Swipe, error) {
	args := m.Called(ctx, userID, targetUserID)
	if s, _ := args.Get(0).(*domain.Swipe); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSwipeStore) ListByUser(ctx context.Context, userID string) ([]domain.Swipe, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Swipe), args.Error(1)
}
func (m *mockSwipeStore) ListLikesReceived(ctx context.Context, userID string) ([]domain.Swipe, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Swipe), args.Error(1)
}
func (m *mockSwipeStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockMatchStore struct{ mock.Mock }

func (m *mockMatchStore) Create(ctx context.Context, match *domain.Match) error {
	return m.Called(ctx, match).Error(0)
}
func (m *mockMatchStore) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	args := m.Called(ctx, matchID)
	if mt, _ := args.Get(0).(*domain.Match); mt != nil {
		return mt, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.User), args.String(1), args.Error(2)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyMatch(ctx context.Context, userID, actorUserID string) error {
	return m.Called(ctx, userID, actorUserID).Error(0)
}
func (m *mockNotifier) NotifyLike(ctx context.Context, userID, actorUserID string) error {
	return m.Called(ctx, userID, actorUserID).Error(0)
}

// --- helpers ---

func newService(ss *mockSwipeStore, ms *mockMatchStore, us *mockUserStore, nf *mockNotifier) Service {
	return NewService(ServiceDeps{
		SwipeRepo: ss,
		MatchRepo: ms,
		UserRepo:  us,
		Notifier:  nf,
	})
}

func enabledUser(userID string) *domain.User {
	return &domain.User{UserID: userID, Enable: true}
}

// --- Swipe tests ---

func TestSwipe_OnSelf(t *testing.T) {
	svc := newService(&mockSwipeStore{}, &mockMatchStore{}, &mockUserStore{}, &mockNotifier{})
	_, err := svc.Swipe(context.Background(), "u1", "u1", true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSwipe_Pass_NoMatchNoNotification(t *testing.T) {
	ss := &mockSwipeStore{}
	us := &mockUserStore{}
	nf := &mockNotifier{}
	us.On("Get", mock.Anything, "u2").Return(enabledUser("u2"), nil)
	ss.On("Put", mock.Anything, mock.AnythingOfType("*domain.Swipe")).Return(nil)

	svc := newService(ss, &mockMatchStore{}, us, nf)
	res, err := svc.Swipe(context.Background(), "u1", "u2", false)

	require.NoError(t, err)
	assert.False(t, res.Matched)
	nf.AssertNotCalled(t, "NotifyLike", mock.Anything, mock.Anything, mock.Anything)
	ss.AssertExpectations(t)
}

func TestSwipe_LikeWithoutReciprocity_NotifiesTarget(t *testing.T) {
	ss := &mockSwipeStore{}
	us := &mockUserStore{}
	nf := &mockNotifier{}
	us.On("Get", mock.Anything, "u2").Return(enabledUser("u2"), nil)
	ss.On("Put", mock.Anything, mock.Anything).Return(nil)
	ss.On("Get", mock.Anything, "u2", "u1").Return(nil, domain.ErrNotFound)
	nf.On("NotifyLike", mock.Anything, "u2", "u1").Return(nil)

	svc := newService(ss, &mockMatchStore{}, us, nf)
	res, err := svc.Swipe(context.Background(), "u1", "u2", true)

	require.NoError(t, err)
	assert.False(t, res.Matched)
	nf.AssertExpectations(t)
}

func TestSwipe_MutualLike_CreatesMatchAndNotifiesBoth(t *testing.T) {
	ss := &mockSwipeStore{}
	ms := &mockMatchStore{}
	us := &mockUserStore{}
	nf := &mockNotifier{}
	us.On("Get", mock.Anything, "u2").Return(enabledUser("u2"), nil)
	ss.On("Put", mock.Anything, mock.Anything).Return(nil)
	ss.On("Get", mock.Anything, "u2", "u1").Return(&domain.Swipe{UserID: "u2", TargetUserID: "u1", Liked: true}, nil)
	ms.On("Create", mock.Anything, mock.AnythingOfType("*domain.Match")).Return(nil)
	nf.On("NotifyMatch", mock.Anything, "u1", "u2").Return(nil)
	nf.On("NotifyMatch", mock.Anything, "u2", "u1").Return(nil)

	svc := newService(ss, ms, us, nf)
	res, err := svc.Swipe(context.Background(), "u1", "u2", true)

	require.NoError(t, err)
	assert.True(t, res.Matched)
	require.NotNil(t, res.Match)
	assert.Equal(t, domain.MatchKey("u1", "u2"), res.Match.MatchID)
	ms.AssertExpectations(t)
	nf.AssertExpectations(t)
}

func TestSwipe_ConcurrentMatchCreation_ReturnsExisting(t *testing.T) {
	ss := &mockSwipeStore{}
	ms := &mockMatchStore{}
	us := &mockUserStore{}
	existing := &domain.Match{MatchID: domain.MatchKey("u1", "u2"), Active: true}
	us.On("Get", mock.Anything, "u2").Return(enabledUser("u2"), nil)
	ss.On("Put", mock.Anything, mock.Anything).Return(nil)
	ss.On("Get", mock.Anything, "u2", "u1").Return(&domain.Swipe{Liked: true}, nil)
	ms.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	ms.On("Get", mock.Anything, existing.MatchID).Return(existing, nil)

	svc := newService(ss, ms, us, &mockNotifier{})
	res, err := svc.Swipe(context.Background(), "u1", "u2", true)

	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, existing, res.Match)
}

func TestSwipe_DisabledTarget(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2", Enable: false}, nil)

	svc := newService(&mockSwipeStore{}, &mockMatchStore{}, us, &mockNotifier{})
	_, err := svc.Swipe(context.Background(), "u1", "u2", true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- LikesSent / ResetSwipes tests ---

func TestLikesSent_SkipsDislikesAndMissingProfiles(t *testing.T) {
	ss := &mockSwipeStore{}
	us := &mockUserStore{}
	ss.On("ListByUser", mock.Anything, "u1").Return([]domain.Swipe{
		{UserID: "u1", TargetUserID: "liked", Liked: true},
		{UserID: "u1", TargetUserID: "passed", Liked: false},
		{UserID: "u1", TargetUserID: "deleted", Liked: true},
	}, nil)
	us.On("Get", mock.Anything, "liked").Return(enabledUser("liked"), nil)
	us.On("Get", mock.Anything, "deleted").Return(nil, domain.ErrNotFound)

	svc := newService(ss, &mockMatchStore{}, us, &mockNotifier{})
	got, err := svc.LikesSent(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "liked", got[0].UserID)
	us.AssertNotCalled(t, "Get", mock.Anything, "passed")
}

func TestResetSwipes_ReportsDeletedCount(t *testing.T) {
	ss := &mockSwipeStore{}
	ss.On("DeleteByUser", mock.Anything, "u1").Return(7, nil)

	svc := newService(ss, &mockMatchStore{}, &mockUserStore{}, &mockNotifier{})
	count, err := svc.ResetSwipes(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 7, count)
	ss.AssertExpectations(t)
}

// --- Discover tests ---

func TestDiscover_FiltersSwipedAndPreferences(t *testing.T) {
	ss := &mockSwipeStore{}
	us := &mockUserStore{}
	me := &domain.User{UserID: "me", Enable: true, LookingFor: "female", MinAge: 25, MaxAge: 35}
	us.On("Get", mock.Anything, "me").Return(me, nil)
	ss.On("ListByUser", mock.Anything, "me").Return([]domain.Swipe{
		{UserID: "me", TargetUserID: "seen"},
	}, nil)
	us.On("ScanPage", mock.Anything, int32(100), "").Return([]domain.User{
		{UserID: "seen", Enable: true, Gender: "female", Age: 30},
		{UserID: "wrong-gender", Enable: true, Gender: "male", Age: 30},
		{UserID: "too-young", Enable: true, Gender: "female", Age: 20},
		{UserID: "disabled", Enable: false, Gender: "female", Age: 30},
		{UserID: "good", Enable: true, Gender: "female", Age: 30},
	}, "", nil)

	svc := newService(ss, &mockMatchStore{}, us, &mockNotifier{})
	got, err := svc.Discover(context.Background(), "me", 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].UserID)
}

func TestDiscover_DistanceFilter(t *testing.T) {
	ss := &mockSwipeStore{}
	us := &mockUserStore{}
	vienna := []float64{48.2082, 16.3738}
	berlin := []float64{52.5200, 13.4050}
	graz := []float64{47.0707, 15.4395}
	me := &domain.User{
		UserID: "me", Enable: true, MinAge: 18, MaxAge: 99, MaxDistanceKM: 250,
		CurrentLatitude: &vienna[0], CurrentLongitude: &vienna[1],
	}
	us.On("Get", mock.Anything, "me").Return(me, nil)
	ss.On("ListByUser", mock.Anything, "me").Return([]domain.Swipe{}, nil)
	us.On("ScanPage", mock.Anything, int32(100), "").Return([]domain.User{
		{UserID: "far", Enable: true, Age: 30, CurrentLatitude: &berlin[0], CurrentLongitude: &berlin[1]},
		{UserID: "near", Enable: true, Age: 30, CurrentLatitude: &graz[0], CurrentLongitude: &graz[1]},
	}, "", nil)

	svc := newService(ss, &mockMatchStore{}, us, &mockNotifier{})
	got, err := svc.Discover(context.Background(), "me", 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].UserID)
}
