package redis

// Key prefix for all game-related data
const keyPrefix = "coinpit"

// documentKey returns the Redis key holding the aggregate game document.
func documentKey() string {
	return keyPrefix + ":document"
}
