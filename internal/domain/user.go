package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UserID            string     `json:"id" dynamodbav:"user_id"`
	Email             string     `json:"email" dynamodbav:"email"`
	Phone             *string    `json:"phone" dynamodbav:"phone"`
	PasswordHash      string     `json:"-" dynamodbav:"password_hash"`
	Role              string     `json:"role" dynamodbav:"role"`
	FirstName         string     `json:"first_name" dynamodbav:"first_name"`
	LastName          string     `json:"last_name" dynamodbav:"last_name"`
	Country           string     `json:"country" dynamodbav:"country"`
	Birthday          time.Time  `json:"birthday" dynamodbav:"birthday"`
	Age               int        `json:"age" dynamodbav:"age"`
	Gender            string     `json:"gender" dynamodbav:"gender"`
	LookingFor        string     `json:"looking_for" dynamodbav:"looking_for"`
	Bio               string     `json:"bio" dynamodbav:"bio"`
	Occupation        string     `json:"occupation" dynamodbav:"occupation"`
	Interests         []string   `json:"interests" dynamodbav:"interests"`
	RelationshipType  string     `json:"relationship_type" dynamodbav:"relationship_type"`
	MinAge            int        `json:"min_age" dynamodbav:"min_age"`
	MaxAge            int        `json:"max_age" dynamodbav:"max_age"`
	MaxDistanceKM     int        `json:"max_distance" dynamodbav:"max_distance_km"`
	Location          string     `json:"location" dynamodbav:"location"`
	Latitude          *float64   `json:"latitude" dynamodbav:"latitude"`
	Longitude         *float64   `json:"longitude" dynamodbav:"longitude"`
	CurrentLatitude   *float64   `json:"current_latitude" dynamodbav:"current_latitude"`
	CurrentLongitude  *float64   `json:"current_longitude" dynamodbav:"current_longitude"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty" dynamodbav:"location_updated_at"`
	Photos            []string   `json:"profile_images" dynamodbav:"photos"`
	IsPremium         bool       `json:"is_premium" dynamodbav:"is_premium"`
	PremiumUntil      *time.Time `json:"premium_until,omitempty" dynamodbav:"premium_until"`
	PhoneConfirmed    bool       `json:"phone_confirmed" dynamodbav:"phone_confirmed"`
	Enable            bool       `json:"enable" dynamodbav:"enable"`
	LastLoginAt       *time.Time `json:"last_login,omitempty" dynamodbav:"last_login_at"`
	CreatedAt         time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt         time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Phone     *string `json:"phone"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Country   string  `json:"country" validate:"required"`
	Birthday  string  `json:"birthday"` // expected format: YYYY-MM-DD
	Gender    string  `json:"gender"`
}

// LocationStatus summarises the coordinate sets on file for a user. Clients
// use it to decide whether to prompt for GPS or a home city.
type LocationStatus struct {
	HomeLocation         string     `json:"home_location"`
	HasHomeCoordinates   bool       `json:"has_home_coordinates"`
	HasCurrentLocation   bool       `json:"has_current_location"`
	UsingCurrentLocation bool       `json:"using_current_location"`
	LocationUpdatedAt    *time.Time `json:"location_updated_at,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName        *string   `json:"first_name"`
	LastName         *string   `json:"last_name"`
	Bio              *string   `json:"bio"`
	Occupation       *string   `json:"occupation"`
	Location         *string   `json:"location"`
	Age              *int      `json:"age"`
	Gender           *string   `json:"gender"`
	LookingFor       *string   `json:"looking_for"`
	MinAge           *int      `json:"min_age"`
	MaxAge           *int      `json:"max_age"`
	MaxDistanceKM    *int      `json:"max_distance"`
	RelationshipType *string   `json:"relationship_type"`
	Interests        *[]string `json:"interests"`
}
