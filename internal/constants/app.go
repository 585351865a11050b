package constants

// Application Information
const (
	AppName    = "platewatch-api"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix       = "platewatch:"
	CacheKeyReportOwner  = CacheKeyPrefix + "report:owner:"
	CacheKeyReportPlate  = CacheKeyPrefix + "report:plate:"
	CacheKeyReportRecent = CacheKeyPrefix + "report:recent"
)

// Report attachment limits
const (
	MaxReportImages = 5
	MaxReportVideos = 1
)

// Gin context keys set by the JWT middleware
const (
	CtxUserID    = "user_id"
	CtxUserEmail = "email"
)
