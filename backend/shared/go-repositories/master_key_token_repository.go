package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

/*
MasterKeyTokenRepository is the issuance registry behind single-use master
keys. Entries are keyed by a hash of the printed code and count how many
copies of that code are outstanding: Save adds one and refreshes the TTL,
Consume takes one away. Two identical codes handed to two people therefore
redeem once each.
*/
type MasterKeyTokenRepository interface {
	Save(ctx context.Context, hash, premiseID string, ttl time.Duration) error
	Consume(ctx context.Context, hash string) (premiseID string, ok bool, err error)
}

/* ───────────── redis ───────────── */

const (
	masterKeyFieldPremise = "premise"
	masterKeyFieldCount   = "n"
)

// Decrements the outstanding count and returns the premise, or nil when no
// copy was left. The entry is deleted once the count reaches zero.
var consumeMasterKeyScript = redis.NewScript(`
local n = redis.call('HINCRBY', KEYS[1], ARGV[2], -1)
if n < 0 then
	redis.call('DEL', KEYS[1])
	return false
end
local premise = redis.call('HGET', KEYS[1], ARGV[1])
if n == 0 then
	redis.call('DEL', KEYS[1])
end
return premise
`)

type redisMasterKeyTokens struct {
	rdb *redis.Client
}

func NewRedisMasterKeyTokenRepository(rdb *redis.Client) MasterKeyTokenRepository {
	return &redisMasterKeyTokens{rdb: rdb}
}

func masterKeyTokenKey(hash string) string {
	return "gatepass:master-key:" + hash
}

func (r *redisMasterKeyTokens) Save(ctx context.Context, hash, premiseID string, ttl time.Duration) error {
	key := masterKeyTokenKey(hash)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, masterKeyFieldPremise, premiseID)
		pipe.HIncrBy(ctx, key, masterKeyFieldCount, 1)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *redisMasterKeyTokens) Consume(ctx context.Context, hash string) (string, bool, error) {
	value, err := consumeMasterKeyScript.Run(ctx, r.rdb,
		[]string{masterKeyTokenKey(hash)}, masterKeyFieldPremise, masterKeyFieldCount).Text()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

/* ───────────── memory ───────────── */

type memoryMasterKeyToken struct {
	premiseID   string
	outstanding int
	expiresAt   time.Time
}

type memoryMasterKeyTokens struct {
	mu     sync.Mutex
	tokens map[string]memoryMasterKeyToken
	now    func() time.Time
}

func NewMemoryMasterKeyTokenRepository() MasterKeyTokenRepository {
	return &memoryMasterKeyTokens{tokens: make(map[string]memoryMasterKeyToken), now: time.Now}
}

func (r *memoryMasterKeyTokens) Save(_ context.Context, hash, premiseID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	tok, ok := r.tokens[hash]
	if !ok || !now.Before(tok.expiresAt) {
		tok = memoryMasterKeyToken{}
	}
	tok.premiseID = premiseID
	tok.outstanding++
	tok.expiresAt = now.Add(ttl)
	r.tokens[hash] = tok
	return nil
}

func (r *memoryMasterKeyTokens) Consume(_ context.Context, hash string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[hash]
	if !ok {
		return "", false, nil
	}
	if !r.now().Before(tok.expiresAt) {
		delete(r.tokens, hash)
		return "", false, nil
	}
	tok.outstanding--
	if tok.outstanding <= 0 {
		delete(r.tokens, hash)
	} else {
		r.tokens[hash] = tok
	}
	return tok.premiseID, true, nil
}
