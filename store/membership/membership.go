package membership

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
)

type membershipStore struct {
	db *db.DB
}

// New new membership store
func New(db *db.DB) core.IMembershipStore {
	return &membershipStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Membership{})
		if err := tx.AutoMigrate(core.Membership{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *membershipStore) ListAssets(ctx context.Context, account string) ([]string, error) {
	var assets []string
	err := s.db.View().Model(core.Membership{}).
		Where("account = ?", account).
		Order("id").
		Pluck("asset", &assets).Error
	if err != nil {
		return nil, err
	}

	return assets, nil
}

func (s *membershipStore) Enter(ctx context.Context, account, asset string) error {
	membership := core.Membership{Account: account, Asset: asset}
	return s.db.Update().Where("account = ? AND asset = ?", account, asset).FirstOrCreate(&membership).Error
}

func (s *membershipStore) Exit(ctx context.Context, account, asset string) error {
	return s.db.Update().Where("account = ? AND asset = ?", account, asset).Delete(core.Membership{}).Error
}
