package repo

import (
	"Trades/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotStore хранит снапшоты состояния сессии как непрозрачные байты под ключом.
type SnapshotStore interface {
	// Load возвращает found=false, если под ключом ничего не сохранено.
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	// Save перезаписывает снапшот целиком.
	Save(ctx context.Context, key string, data []byte) error
}

type snapshotRepo struct {
	db *gorm.DB
}

// NewSnapshotRepository создаёт хранилище снапшотов поверх таблицы snapshots.
func NewSnapshotRepository(db *gorm.DB) SnapshotStore {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var s model.Snapshot
	err := r.db.WithContext(ctx).First(&s, "snapshot_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s.Data, true, nil
}

// Save делает upsert: последняя запись побеждает.
func (r *snapshotRepo) Save(ctx context.Context, key string, data []byte) error {
	s := &model.Snapshot{Key: key, Data: data}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(s).Error
}
