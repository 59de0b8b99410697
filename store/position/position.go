package position

import (
	"context"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, account, asset string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("account = ? AND asset = ?", account, asset).First(&position).Error; err != nil {
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) ListByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("account = ?", account).Order("asset").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	if position.ID == 0 {
		position.Version = 1
		return s.db.Update().Create(position).Error
	}

	version := position.Version
	position.Version++
	updates := map[string]interface{}{
		"claims":         position.Claims,
		"principal":      position.Principal,
		"interest_index": position.InterestIndex,
		"version":        position.Version,
	}

	tx := s.db.Update().Model(core.Position{}).Where("id = ? AND version = ?", position.ID, version).Updates(updates)
	if tx.Error != nil {
		position.Version = version
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		position.Version = version
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *positionStore) ListBorrowers(ctx context.Context) ([]string, error) {
	var accounts []string
	err := s.db.View().Model(core.Position{}).
		Where("principal <> ? AND principal <> ?", "0", "").
		Order("account").
		Pluck("DISTINCT account", &accounts).Error
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
