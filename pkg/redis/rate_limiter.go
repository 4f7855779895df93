package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterOptions represents options for rate limiting
type RateLimiterOptions struct {
	// MaxTransactionsPerSecond is the maximum number of transactions per second (optional)
	MaxTransactionsPerSecond int
	// MaxTransactionsPerMinute is the maximum number of transactions per minute (optional)
	MaxTransactionsPerMinute int
}

// NewRateLimiterOptions creates rate limiter options with every limit disabled
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{}
}

// WithMaxTransactionsPerSecond sets the maximum number of transactions per second
func (rlo *RateLimiterOptions) WithMaxTransactionsPerSecond(max int) *RateLimiterOptions {
	rlo.MaxTransactionsPerSecond = max
	return rlo
}

// WithMaxTransactionsPerMinute sets the maximum number of transactions per minute
func (rlo *RateLimiterOptions) WithMaxTransactionsPerMinute(max int) *RateLimiterOptions {
	rlo.MaxTransactionsPerMinute = max
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.MaxTransactionsPerSecond < 0 || rlo.MaxTransactionsPerMinute < 0 {
		return fmt.Errorf("limits must be non-negative")
	}
	if rlo.MaxTransactionsPerSecond == 0 && rlo.MaxTransactionsPerMinute == 0 {
		return fmt.Errorf("at least one limit must be configured (MaxTransactionsPerSecond or MaxTransactionsPerMinute)")
	}
	return nil
}

// Sliding window check and record, atomic on the server.
// Returns 1 when allowed, -1 when the per second limit is hit, -2 for the per minute limit.
var acquireScript = redis.NewScript(`
	local tps_key = KEYS[1]
	local tpm_key = KEYS[2]

	local max_tps = tonumber(ARGV[1])
	local max_tpm = tonumber(ARGV[2])
	local member = ARGV[3]
	local now_micros = tonumber(ARGV[4])

	if max_tps > 0 then
		local tps_cutoff = now_micros - 1000000
		redis.call("ZREMRANGEBYSCORE", tps_key, "-inf", tps_cutoff)
		if redis.call("ZCARD", tps_key) >= max_tps then
			return -1
		end
	end

	if max_tpm > 0 then
		local tpm_cutoff = now_micros - 60000000
		redis.call("ZREMRANGEBYSCORE", tpm_key, "-inf", tpm_cutoff)
		if redis.call("ZCARD", tpm_key) >= max_tpm then
			return -2
		end
	end

	if max_tps > 0 then
		redis.call("ZADD", tps_key, now_micros, member)
		redis.call("EXPIRE", tps_key, 2)
	end

	if max_tpm > 0 then
		redis.call("ZADD", tpm_key, now_micros, member)
		redis.call("EXPIRE", tpm_key, 61)
	end

	return 1
`)

// RateLimiter is a distributed sliding window rate limiter keyed by an identifier
type RateLimiter struct {
	client   *Client
	key      string
	opts     *RateLimiterOptions
	sequence atomic.Uint64
	now      func() time.Time
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client *Client, key string, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		opts = NewRateLimiterOptions()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &RateLimiter{
		client: client,
		key:    key,
		opts:   opts,
		now:    time.Now,
	}, nil
}

// buildKey constructs the full key using Namespace::key::identifier::suffix format
func (rl *RateLimiter) buildKey(identifier, suffix string) string {
	return rl.client.Key(rl.key + "::" + identifier + "::" + suffix)
}

// Allow records a transaction for identifier and reports whether it is within the limits
func (rl *RateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	now := rl.now()
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatUint(rl.sequence.Add(1), 10)

	result, err := acquireScript.Run(ctx, rl.client.GetClient(),
		[]string{rl.buildKey(identifier, "tps"), rl.buildKey(identifier, "tpm")},
		rl.opts.MaxTransactionsPerSecond,
		rl.opts.MaxTransactionsPerMinute,
		member,
		now.UnixMicro(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rate limit: %w", err)
	}

	return result == 1, nil
}
