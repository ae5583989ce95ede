// Package dedup provides Redis-backed short-window duplicate detection.
// Content-hash records are stored as hashes with TTL-based expiry:
//
//	Key:    dup:<user_id>:<sha256(content)>
//	Fields: occurrence_count, preview, first_seen, last_seen
//	TTL:    duplicate window
//
// Records are keyed per user, so identical content from different users
// (common short replies, "+1", "thanks") is never penalized cross-user.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix is the Redis key prefix for content-hash records.
const KeyPrefix = "dup:"

// previewLen caps the stored content preview.
const previewLen = 100

// Detector tracks recent content hashes per user in Redis.
type Detector struct {
	client *redis.Client
	window time.Duration
	touch  *redis.Script
}

// NewDetector creates a detector using the provided Redis client and
// duplicate window.
func NewDetector(client *redis.Client, window time.Duration) *Detector {
	return &Detector{
		client: client,
		window: window,
		touch:  redis.NewScript(touchLua),
	}
}

// Hash returns the content signature: sha256 over the trimmed, lowercased
// content, hex-encoded.
func Hash(content string) string {
	normalized := strings.TrimSpace(strings.ToLower(content))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// IsDuplicate reports whether the user submitted identical content within
// the duplicate window, and records the submission either way: the
// occurrence count is incremented, last_seen refreshed, and the TTL reset.
// The check-and-touch is a single Lua script so concurrent submissions from
// the same user cannot lose counter updates.
//
// Callers should treat errors as non-blocking (fail open): duplicate
// detection is a spam deterrent, not a security boundary.
func (d *Detector) IsDuplicate(ctx context.Context, userID, content string) (bool, error) {
	key := KeyPrefix + userID + ":" + Hash(content)
	now := time.Now().Unix()

	preview := strings.TrimSpace(content)
	if r := []rune(preview); len(r) > previewLen {
		preview = string(r[:previewLen])
	}

	existed, err := d.touch.Run(ctx, d.client, []string{key},
		now, int(d.window.Seconds()), preview).Int()
	if err != nil {
		return false, fmt.Errorf("dedup: touch %s: %w", key, err)
	}
	return existed == 1, nil
}

// Record is one content-hash entry, as read back for inspection.
type Record struct {
	OccurrenceCount int
	Preview         string
	FirstSeen       time.Time
	LastSeen        time.Time
}

// Get reads the record for a user/content pair. Returns nil if no record
// exists within the window.
func (d *Detector) Get(ctx context.Context, userID, content string) (*Record, error) {
	key := KeyPrefix + userID + ":" + Hash(content)
	fields, err := d.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("dedup: get %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &Record{Preview: fields["preview"]}
	fmt.Sscanf(fields["occurrence_count"], "%d", &rec.OccurrenceCount)
	var first, last int64
	fmt.Sscanf(fields["first_seen"], "%d", &first)
	fmt.Sscanf(fields["last_seen"], "%d", &last)
	rec.FirstSeen = time.Unix(first, 0)
	rec.LastSeen = time.Unix(last, 0)
	return rec, nil
}

// touchLua atomically records a sighting of a content hash and reports
// whether it already existed. TTL equals the duplicate window, so a key's
// existence implies the last sighting is inside the window.
const touchLua = `
local key = KEYS[1]
local now = ARGV[1]
local ttl = tonumber(ARGV[2])
local preview = ARGV[3]

local existed = redis.call('EXISTS', key)
redis.call('HINCRBY', key, 'occurrence_count', 1)
redis.call('HSET', key, 'last_seen', now)
if existed == 0 then
    redis.call('HSET', key, 'first_seen', now, 'preview', preview)
end
redis.call('EXPIRE', key, ttl)

return existed
`
