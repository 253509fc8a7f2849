package locks

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// redis key patterns
const (
	// onboarding:{userID}:lock - held while one replica provisions the user
	keyOnboardingLock = "onboarding:%s:lock"
)

// releases the lock only when it still holds our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// per-user mutual exclusion backed by Redis SET NX
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	script *redis.Script
}
