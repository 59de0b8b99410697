package cmd

import (
	"comptroller/core"
	"comptroller/service/account"
	"comptroller/service/block"
	"comptroller/service/borrow"
	"comptroller/service/comptroller"
	"comptroller/service/liquidation"
	"comptroller/service/market"
	"comptroller/service/oracle"
	"comptroller/service/registry"
	"comptroller/service/reserve"
	"comptroller/service/supply"
	"comptroller/service/treasury"
	accountstore "comptroller/store/account"
	"comptroller/store/memory"
	"comptroller/store/state"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/go-redis/redis"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

// provideRedis nil when no redis is configured
func provideRedis() *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

type stores struct {
	states   core.StateStore
	property property.Store
	cache    core.IAccountStore
	close    func()
}

func provideStores() stores {
	s := stores{close: func() {}}

	if cfg.App.Store == core.StoreSQL {
		database := provideDatabase()
		s.states = state.New(database)
		s.property = propertystore.New(database)
		s.close = func() { database.Close() }
	} else {
		s.states = memory.New()
	}

	if client := provideRedis(); client != nil {
		s.cache = accountstore.New(client)
	}

	return s
}

// ------------------service------------------------------------

type services struct {
	stores
	blocks      core.IBlockService
	oracle      core.IPriceOracle
	treasury    *treasury.Ledger
	markets     core.IMarketService
	accounts    core.IAccountService
	comptroller core.IComptrollerService
	registry    core.IRegistryService
	supply      core.ISupplyService
	borrows     core.IBorrowService
	liquidation core.ILiquidationService
	reserves    core.IReserveService
}

func provideBlockService() core.IBlockService {
	return block.New(provideConfig())
}

// provideOracle pulls prices from the endpoint when set, otherwise serves
// the configured prices
func provideOracle() core.IPriceOracle {
	if cfg.Oracle.EndPoint != "" {
		return oracle.NewHTTP(cfg.Oracle)
	}

	o, err := oracle.FromConfig(cfg.Oracle)
	if err != nil {
		panic(err)
	}

	return o
}

func provideServices() services {
	s := services{
		stores:   provideStores(),
		blocks:   provideBlockService(),
		oracle:   provideOracle(),
		treasury: treasury.New(),
	}

	policy := provideConfig()
	s.markets = market.New(s.blocks, nil)
	s.accounts = account.New(s.markets, s.blocks, s.oracle)
	s.comptroller = comptroller.New(s.markets, s.accounts, s.oracle)
	s.registry = registry.New(s.states, policy, s.oracle, s.blocks, s.markets)
	s.supply = supply.New(s.states, s.markets, s.comptroller)
	s.borrows = borrow.New(s.states, s.markets, s.accounts, s.comptroller)
	s.liquidation = liquidation.New(s.states, s.markets, s.borrows, s.comptroller, s.oracle)
	s.reserves = reserve.New(s.states, s.markets, policy, s.treasury)
	return s
}
