package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// SetOTP stores a password-reset code for the given email with a TTL.
func SetOTP(email, code string, ttl time.Duration) error {
	return Client.Set(Ctx, "otp:"+email, code, ttl).Err()
}

// GetOTP returns the stored code, or "" when none exists or it expired.
func GetOTP(email string) (string, error) {
	code, err := Client.Get(Ctx, "otp:"+email).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

// DeleteOTP removes a consumed reset code.
func DeleteOTP(email string) error {
	return Client.Del(Ctx, "otp:"+email).Err()
}

// CacheJSON stores a marshaled response body under key for ttl.
func CacheJSON(key string, body []byte, ttl time.Duration) error {
	return Client.Set(Ctx, key, body, ttl).Err()
}

// GetCachedJSON returns a cached body, or nil when the key is missing.
func GetCachedJSON(key string) ([]byte, error) {
	body, err := Client.Get(Ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return body, err
}
