package oracle

import (
	"context"
	"net/url"
	"time"

	"comptroller/core"
	"comptroller/pkg/number"
	"comptroller/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// HTTP oracle pulling price tickers from a remote endpoint. Assets the
// endpoint does not know price at zero.
type HTTP struct {
	client *resthttp.Client
	ttl    time.Duration
	cache  gcache.Cache
	sf     *singleflight.Group
}

// NewHTTP new http oracle, prices are cached for ttl
func NewHTTP(cfg core.PriceOracle) *HTTP {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return &HTTP{
		client: resthttp.New(cfg.EndPoint, 0),
		ttl:    ttl,
		cache:  gcache.New(1024).LRU().Build(),
		sf:     &singleflight.Group{},
	}
}

func (s *HTTP) GetUnderlyingPrice(ctx context.Context, asset string) (number.Exp, error) {
	if v, err := s.cache.Get(asset); err == nil {
		if price, ok := v.(number.Exp); ok {
			return price, nil
		}
	}

	v, err, _ := s.sf.Do(asset, func() (interface{}, error) {
		ticker, err := s.PullPriceTicker(ctx, asset)
		if resthttp.IsNotFound(err) {
			return number.ExpZero, nil
		}
		if err != nil {
			return nil, err
		}

		_ = s.cache.SetWithExpire(asset, ticker.Price, s.ttl)
		return ticker.Price, nil
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("asset", asset).Errorln("pull price ticker")
		return number.ExpZero, err
	}

	return v.(number.Exp), nil
}

// PullPriceTicker pull price ticker
func (s *HTTP) PullPriceTicker(ctx context.Context, asset string) (*core.PriceTicker, error) {
	var ticker core.PriceTicker
	if err := s.client.Get(ctx, "/api/v2/tickers/"+url.PathEscape(asset), &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

// Purge drops every cached price
func (s *HTTP) Purge() {
	s.cache.Purge()
}
