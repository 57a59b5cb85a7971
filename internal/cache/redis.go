package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sadhna-backend/internal/models"
)

const (
	payrollKeyFmt     = "payroll:%d:%04d-%02d"
	payrollPatternFmt = "payroll:%d:*"
	payrollTTL        = 10 * time.Minute
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every helper
// below becomes a no-op, so the app keeps working without a cache.
func Init(addr, password string) error {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		client = nil
		return err
	}
	client = c
	return nil
}

// SetClient swaps the package client; tests point it at a throwaway server.
func SetClient(c *redis.Client) {
	client = c
}

func Close() {
	if client != nil {
		client.Close()
		client = nil
	}
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func PayrollKey(employeeID, month, year int) string {
	return fmt.Sprintf(payrollKeyFmt, employeeID, year, month)
}

// PayrollCache stores monthly payroll summaries in Redis.
type PayrollCache struct{}

func NewPayrollCache() *PayrollCache {
	return &PayrollCache{}
}

func (PayrollCache) Get(ctx context.Context, employeeID, month, year int) (*models.PayrollSummary, bool) {
	data, ok := GetCached(ctx, PayrollKey(employeeID, month, year))
	if !ok {
		return nil, false
	}
	var s models.PayrollSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (PayrollCache) Set(ctx context.Context, s *models.PayrollSummary) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	SetCached(ctx, PayrollKey(s.EmployeeID, s.Month, s.Year), data, payrollTTL)
}

// Invalidate drops every cached month for the employee.
// Called when: attendance added, salary or name changed, employee deleted.
func (PayrollCache) Invalidate(ctx context.Context, employeeID int) {
	InvalidatePattern(ctx, fmt.Sprintf(payrollPatternFmt, employeeID))
}
