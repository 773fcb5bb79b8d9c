// Package scoring implements the business collaborators consumed by dispatch:
// the online score computation and the per-client interest lookup.
//
// The score weights and the cache key derivation are a fixed contract with
// the deployed clients and must not be re-derived: phone and email are worth
// 1.5 each, a birthday with a known gender 1.5, a full name pair 0.5.
package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"scoreapi/internal/storage"
)

// ScoreCacheTTL is how long a computed score stays valid in the store.
const ScoreCacheTTL = time.Hour

const (
	scoreKeyPrefix    = "uid:"
	interestKeyPrefix = "i:"
)

// Store is the slice of the storage client the collaborators need. Score uses
// only the degraded-mode calls, so an unreachable store costs a recompute
// rather than a failed request. Interests uses the hard read because stale
// interest lists are not acceptable.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	CacheGet(ctx context.Context, key string) (string, bool, error)
	CacheSet(ctx context.Context, key, value string, ttl time.Duration) error
}

// Params are the normalized inputs to the score computation. Phone carries
// the canonical string form; Gender is meaningful only when HasGender is set.
type Params struct {
	Phone       string
	Email       string
	Birthday    time.Time
	HasBirthday bool
	Gender      int
	HasGender   bool
	FirstName   string
	LastName    string
}

// Score returns the cached score for the given identity, or computes, caches
// and returns it. Cache failures are absorbed by the degraded-mode store
// calls, so Score itself cannot fail.
func Score(ctx context.Context, store Store, p Params) float64 {
	key := scoreKey(p)
	if cached, ok, err := store.CacheGet(ctx, key); err == nil && ok {
		if score, err := strconv.ParseFloat(cached, 64); err == nil {
			return score
		}
	}

	var score float64
	if p.Phone != "" {
		score += 1.5
	}
	if p.Email != "" {
		score += 1.5
	}
	if p.HasBirthday && p.HasGender && p.Gender != 0 {
		score += 1.5
	}
	if p.FirstName != "" && p.LastName != "" {
		score += 0.5
	}

	_ = store.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), ScoreCacheTTL)
	return score
}

// Interests returns the interest tags recorded for a client. A client with no
// recorded interests yields an empty list; a store connection failure
// propagates, since this is a hard read.
func Interests(ctx context.Context, store Store, clientID string) ([]string, error) {
	raw, err := store.Get(ctx, interestKeyPrefix+clientID)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// scoreKey derives the cache key from the identity fields. The derivation is
// part of the store contract: keys must match entries written by the batch
// pipeline that precomputes scores.
func scoreKey(p Params) string {
	var birthday string
	if p.HasBirthday {
		birthday = p.Birthday.Format("20060102")
	}
	sum := md5.Sum([]byte(p.FirstName + p.LastName + p.Phone + birthday))
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}
