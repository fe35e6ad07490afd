package redis

import (
	"fmt"

	"github.com/mcoot/warfront/internal/storage"
)

// Key prefix for all warfront data
const keyPrefix = "warfront"

// documentKey returns the Redis key holding a whole collection document
func documentKey(c storage.Collection) string {
	return fmt.Sprintf("%s:doc:%s", keyPrefix, c)
}

// SessionKey returns the Redis key for a session token
func SessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}
