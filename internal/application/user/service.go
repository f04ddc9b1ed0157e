package user

import (
	"context"
	"fmt"
	"time"

	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/pkg/id"
	"github.com/dating-api/internal/pkg/phone"
	pkgtoken "github.com/dating-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmail             = "email"
	fieldPhone             = "phone"
	fieldFirstName         = "first_name"
	fieldLastName          = "last_name"
	fieldBio               = "bio"
	fieldOccupation        = "occupation"
	fieldLocation          = "location"
	fieldAge               = "age"
	fieldGender            = "gender"
	fieldLookingFor        = "looking_for"
	fieldMinAge            = "min_age"
	fieldMaxAge            = "max_age"
	fieldMaxDistanceKM     = "max_distance_km"
	fieldRelationshipType  = "relationship_type"
	fieldInterests         = "interests"
	fieldPasswordHash      = "password_hash"
	fieldPhoneConfirmed    = "phone_confirmed"
	fieldEnable            = "enable"
	fieldLastLoginAt       = "last_login_at"
	fieldLatitude          = "latitude"
	fieldLongitude         = "longitude"
	fieldCurrentLatitude   = "current_latitude"
	fieldCurrentLongitude  = "current_longitude"
	fieldLocationUpdatedAt = "location_updated_at"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	RegisterWithSession(ctx context.Context, req domain.CreateUserRequest) (*domain.Session, string, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	UpdateLocation(ctx context.Context, userID string, lat, lon float64) (*domain.User, error)
	UpdateHomeLocation(ctx context.Context, userID, location string) (*domain.User, error)
	LocationStatus(ctx context.Context, userID string) (*domain.LocationStatus, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type swipeStore interface {
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
	Geocode(ctx context.Context, query string) (lat, lon float64, err error)
}

type service struct {
	repo            userStore
	sessionRepo     sessionStore
	swipeRepo       swipeStore
	jwtProvider     jwtSigner
	geocoder        geocoder
	refreshTokenDur time.Duration
}

type ServiceDeps struct {
	UserRepo        userStore
	SessionRepo     sessionStore
	SwipeRepo       swipeStore
	JWTProvider     jwtSigner
	Geocoder        geocoder
	RefreshTokenDur time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:            deps.UserRepo,
		sessionRepo:     deps.SessionRepo,
		swipeRepo:       deps.SwipeRepo,
		jwtProvider:     deps.JWTProvider,
		geocoder:        deps.Geocoder,
		refreshTokenDur: deps.RefreshTokenDur,
	}
}

// Register creates an account. A phone number, when supplied, must already
// have passed SMS verification; it is stored in canonical form and the
// account is marked phone-confirmed.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	var canonicalPhone *string
	if req.Phone != nil && *req.Phone != "" {
		canonical, err := phone.Normalize(*req.Phone, req.Country)
		if err != nil {
			return nil, err
		}
		if _, err := s.repo.GetByPhone(ctx, canonical); err == nil {
			return nil, fmt.Errorf("phone number already registered: %w", domain.ErrAlreadyRegistered)
		}
		canonicalPhone = &canonical
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var birthday time.Time
	age := 0
	if req.Birthday != "" {
		birthday, err = time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		age = yearsSince(birthday, time.Now().UTC())
		if age < 18 {
			return nil, fmt.Errorf("must be at least 18 years old: %w", domain.ErrBadRequest)
		}
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:         id.New(),
		Email:          req.Email,
		Phone:          canonicalPhone,
		PasswordHash:   string(hash),
		Role:           domain.RoleUser,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Country:        req.Country,
		Birthday:       birthday,
		Age:            age,
		Gender:         req.Gender,
		MinAge:         18,
		MaxAge:         99,
		MaxDistanceKM:  100,
		PhoneConfirmed: canonicalPhone != nil,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) RegisterWithSession(ctx context.Context, req domain.CreateUserRequest) (*domain.Session, string, string, error) {
	u, err := s.Register(ctx, req)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, "", "", err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, "", "", err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, "", "", err
	}
	sess.User = u
	return sess, bearer, refreshToken, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Bio != nil {
		updates[fieldBio] = *req.Bio
	}
	if req.Occupation != nil {
		updates[fieldOccupation] = *req.Occupation
	}
	if req.Location != nil {
		updates[fieldLocation] = *req.Location
	}
	if req.Age != nil {
		updates[fieldAge] = *req.Age
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if req.LookingFor != nil {
		updates[fieldLookingFor] = *req.LookingFor
	}
	if req.MinAge != nil {
		updates[fieldMinAge] = *req.MinAge
	}
	if req.MaxAge != nil {
		updates[fieldMaxAge] = *req.MaxAge
	}
	if req.MaxDistanceKM != nil {
		updates[fieldMaxDistanceKM] = *req.MaxDistanceKM
	}
	if req.RelationshipType != nil {
		updates[fieldRelationshipType] = *req.RelationshipType
	}
	if req.Interests != nil {
		updates[fieldInterests] = *req.Interests
	}
	if minAge, okMin := updates[fieldMinAge].(int); okMin {
		if maxAge, okMax := updates[fieldMaxAge].(int); okMax && minAge > maxAge {
			return nil, fmt.Errorf("min_age cannot exceed max_age: %w", domain.ErrBadRequest)
		}
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// UpdateLocation stores the user's current coordinates and resolves a
// display name for them. Geocoding failure is not fatal; coordinates are
// kept and the display name left unchanged.
func (s *service) UpdateLocation(ctx context.Context, userID string, lat, lon float64) (*domain.User, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range: %w", domain.ErrBadRequest)
	}
	updates := map[string]interface{}{
		fieldCurrentLatitude:   lat,
		fieldCurrentLongitude:  lon,
		fieldLocationUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if place, err := s.geocoder.ReverseGeocode(ctx, lat, lon); err == nil && place != "" {
		updates[fieldLocation] = place
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// UpdateHomeLocation forward-geocodes a place name and stores it as the
// user's home coordinates. Unlike the current location, home cannot be set
// when the place does not resolve.
func (s *service) UpdateHomeLocation(ctx context.Context, userID, location string) (*domain.User, error) {
	if location == "" {
		return nil, fmt.Errorf("location required: %w", domain.ErrBadRequest)
	}
	lat, lon, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("could not geocode location: %w", domain.ErrBadRequest)
	}
	updates := map[string]interface{}{
		fieldLatitude:  lat,
		fieldLongitude: lon,
		fieldLocation:  location,
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// LocationStatus reports which coordinate sets the user has on file.
func (s *service) LocationStatus(ctx context.Context, userID string) (*domain.LocationStatus, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	hasCurrent := u.CurrentLatitude != nil && u.CurrentLongitude != nil
	return &domain.LocationStatus{
		HomeLocation:         u.Location,
		HasHomeCoordinates:   u.Latitude != nil && u.Longitude != nil,
		HasCurrentLocation:   hasCurrent,
		UsingCurrentLocation: hasCurrent,
		LocationUpdatedAt:    u.LocationUpdatedAt,
	}, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

// Delete soft-deletes the account and disables its sessions. Swipe rows are
// removed so the user stops appearing in anyone's likes.
func (s *service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if _, err := s.swipeRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.sessionRepo.SoftDeleteByUser(ctx, userID)
}

func yearsSince(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	if now.YearDay() < birthday.YearDay() {
		years--
	}
	return years
}
