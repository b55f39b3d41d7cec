package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chatterbox/internal/models"
)

type KeyValueRepository interface {
	EnsureNamespace(ctx context.Context, name, description string) error
	// Get returns found=false when the key has never been written.
	Get(ctx context.Context, namespace, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, namespace, key string, value []byte) error
}

type keyValueRepository struct {
	db *gorm.DB
}

func NewKeyValueRepository(db *gorm.DB) KeyValueRepository {
	return &keyValueRepository{db: db}
}

func (r *keyValueRepository) EnsureNamespace(ctx context.Context, name, description string) error {
	ns := models.Namespace{Name: name, Description: description}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description"}),
		}).
		Create(&ns).Error
}

func (r *keyValueRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var kv models.KeyValue
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND item_key = ?", namespace, key).
		First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return kv.Value, true, nil
}

func (r *keyValueRepository) Put(ctx context.Context, namespace, key string, value []byte) error {
	kv := models.KeyValue{Namespace: namespace, Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&kv).Error
}
