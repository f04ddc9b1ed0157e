package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable           = "enable"
	fieldActive           = "active"
	fieldRead             = "read"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldMessageID        = "message_id"
	fieldPhotos           = "photos"
	fieldIsPremium        = "is_premium"
	fieldPremiumUntil     = "premium_until"
	fieldStatus           = "status"
)
