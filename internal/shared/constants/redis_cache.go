package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the campuspark application
// Pattern: campuspark:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for zone catalogue
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for user profiles
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute // 5 minutes - for slot availability
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "campuspark"
)

// ================== ZONES MODULE ==================

const (
	CACHE_KEY_ZONES_ALL   = CACHE_PREFIX + ":zones:list:all"
	CACHE_KEY_ZONE_DETAIL = CACHE_PREFIX + ":zones:detail:id:" // + zone-id
	CACHE_KEY_ZONE_SLOTS  = CACHE_PREFIX + ":zones:slots:id:"  // + zone-id
)

const (
	TTL_ZONES_ALL   = TTL_STATIC_LONG
	TTL_ZONE_DETAIL = TTL_STATIC_LONG
	TTL_ZONE_SLOTS  = TTL_DYNAMIC_SHORT
)

// ================== USERS MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":users:profile:uuid:" // + user-id
)

const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT
)

// ================== RATE LIMITING ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit"
)

// ================== KEY BUILDERS ==================

func BuildZoneDetailKey(zoneID string) string {
	return CACHE_KEY_ZONE_DETAIL + zoneID
}

func BuildZoneSlotsKey(zoneID string) string {
	return CACHE_KEY_ZONE_SLOTS + zoneID
}

func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}

func BuildRateLimitKey(limitType, clientIP string) string {
	return fmt.Sprintf("%s:%s:%s", RATE_LIMIT_PREFIX, limitType, clientIP)
}
