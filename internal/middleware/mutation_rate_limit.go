package middleware

import (
    "net/http"
    "time"

    "github.com/gofiber/fiber/v2"
    "github.com/redis/go-redis/v9"
)

// MutationRateLimit caps deposit/withdrawal requests per customer per minute
// using Redis if available. The fixed window is keyed by the customerId path
// parameter, falling back to the client IP.
func MutationRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
    if maxPerMin <= 0 {
        maxPerMin = 60
    }
    return func(c *fiber.Ctx) error {
        if cache == nil {
            return c.Next() // no-op without Redis
        }
        subject := c.Params("customerId")
        if subject == "" {
            subject = c.IP()
        }
        key := "rl:mutation:" + subject
        cnt, err := cache.Incr(c.UserContext(), key).Result()
        if err == nil && cnt == 1 {
            cache.Expire(c.UserContext(), key, time.Minute)
        }
        if err != nil {
            return c.Next() // fail-open on cache errors
        }
        if cnt > int64(maxPerMin) {
            return fiber.NewError(http.StatusTooManyRequests, "too many wallet operations, try again later")
        }
        return c.Next()
    }
}
