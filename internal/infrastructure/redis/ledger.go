package redisinfra

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/redis/go-redis/v9"
)

// retention keeps an entry readable for a while past its expiry so verify can
// still report it as expired instead of missing.
const retention = time.Hour

// NewClient parses url, connects and pings.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Ledger keeps verification entries in Redis hashes so every API instance
// sees the same codes. Key: verification:<purpose>:<account_id>.
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

func key(accountID, purpose string) string {
	return "verification:" + purpose + ":" + accountID
}

// Put replaces the entry for the account and purpose and sets its TTL.
func (l *Ledger) Put(ctx context.Context, v *domain.Verification) error {
	k := key(v.AccountID, v.Purpose)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, "code", v.Code, "expires_at", v.ExpiresAt)
		pipe.ExpireAt(ctx, k, time.Unix(v.ExpiresAt, 0).Add(retention))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put verification: %w", err)
	}
	return nil
}

func (l *Ledger) Get(ctx context.Context, accountID, purpose string) (*domain.Verification, error) {
	vals, err := l.client.HGetAll(ctx, key(accountID, purpose)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get verification: %w", err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	exp, err := strconv.ParseInt(vals["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode verification expiry: %w", err)
	}
	return &domain.Verification{
		AccountID: accountID,
		Purpose:   purpose,
		Code:      vals["code"],
		ExpiresAt: exp,
	}, nil
}

func (l *Ledger) Delete(ctx context.Context, accountID, purpose string) error {
	return l.client.Del(ctx, key(accountID, purpose)).Err()
}

func (l *Ledger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
