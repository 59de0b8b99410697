package account

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"comptroller/core"

	"github.com/go-redis/redis"
)

const (
	liquidityTTL = time.Hour
	shortfallKey = "comptroller:shortfalls"
)

type accountStore struct {
	Redis *redis.Client
}

// New new account store
func New(redis *redis.Client) core.IAccountStore {
	return &accountStore{
		Redis: redis,
	}
}

// SaveLiquidity caches liquidity of account at block. The first write of a
// block wins.
func (s *accountStore) SaveLiquidity(ctx context.Context, account string, block int64, liquidity *core.AccountLiquidity) error {
	b, err := json.Marshal(liquidity)
	if err != nil {
		return err
	}

	return s.Redis.SetNX(s.liquidityCacheKey(account, block), b, liquidityTTL).Err()
}

func (s *accountStore) FindLiquidity(ctx context.Context, account string, block int64) (*core.AccountLiquidity, error) {
	b, err := s.Redis.Get(s.liquidityCacheKey(account, block)).Bytes()
	if err != nil {
		return nil, err
	}

	var liquidity core.AccountLiquidity
	if err := json.Unmarshal(b, &liquidity); err != nil {
		return nil, err
	}

	return &liquidity, nil
}

// SaveShortfalls replaces the last scanned list of liquidatable accounts
func (s *accountStore) SaveShortfalls(ctx context.Context, block int64, accounts []string) error {
	return s.Redis.Set(shortfallKey, fmt.Sprintf("%d:%s", block, strings.Join(accounts, ",")), 0).Err()
}

func (s *accountStore) FindShortfalls(ctx context.Context) (int64, []string, error) {
	v, err := s.Redis.Get(shortfallKey).Result()
	if err == redis.Nil {
		return 0, nil, nil
	} else if err != nil {
		return 0, nil, err
	}

	var block int64
	var list string
	if i := strings.IndexByte(v, ':'); i >= 0 {
		list = v[i+1:]
		v = v[:i]
	}

	if _, err := fmt.Sscan(v, &block); err != nil {
		return 0, nil, err
	}

	if list == "" {
		return block, nil, nil
	}

	return block, strings.Split(list, ","), nil
}

func (s *accountStore) liquidityCacheKey(account string, block int64) string {
	return fmt.Sprintf("comptroller:liquidity:%s:%d", account, block)
}
