package constants

import "time"

// Pass issuance
const (
	DefaultPassLifetime = 24 * time.Hour
	AccessCodeLength    = 6
)

// Premises
const (
	// Used when a premise has no coordinates to derive a zone from.
	DefaultTimeZone = "Africa/Nairobi"
)

// Master keys
const (
	MasterKeyTTL = 24 * time.Hour
)

// Gate activity
const (
	ActivityFeedLimit = 5

	// A scan carrying device coordinates farther than this from the premise is refused.
	ScanRadiusMeters = 300
)

// Background jobs
const (
	PassExpirySchedule = "@every 1m"
)

// Messages returned by the verification engine.
const (
	MsgUserNotFound      = "User not found in system."
	MsgTenantGranted     = "Access Granted: Tenant"
	MsgGuestGranted      = "Access Granted: Guest"
	MsgNoActivePassFmt   = "Access Denied: No active pass found for %s"
	MsgInvalidCodeFormat = "Invalid Code Format."
	MsgInvalidPass       = "Invalid or Expired Pass."
	MsgWrongPremise      = "Pass is for a different premise."
	MsgInvalidAccessCode = "Invalid Access Code."
	MsgPassGrantedFmt    = "Access Granted: %s"
	MsgPassDeniedFmt     = "Access Denied. Status: %s"
	MsgUnknownCodeFormat = "Unknown Code Format."
)

// Access details attached to a grant.
const (
	RoleResident      = "Resident/Owner"
	RoleVisitor       = "Visitor"
	PurposeHome       = "Home"
	DurationUnlimited = "Unlimited"
)

// Common concurrency conflict messages
const (
	ErrMsgRowVersionConflictRefresh = "The record has changed, please refresh"
)
