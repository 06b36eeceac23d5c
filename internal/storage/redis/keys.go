package redis

import "fmt"

// Key prefix for all typerace data
const keyPrefix = "typerace"

// passagesKey returns the Redis key for the passage corpus
func passagesKey() string {
	return fmt.Sprintf("%s:passages", keyPrefix)
}
