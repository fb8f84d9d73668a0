package repo

import (
	"Trades/internal/model"
	"context"

	"gorm.io/gorm"
)

// ItemQuery — параметры выборки кандидатов в колоду. Пустые поля не ограничивают выборку.
type ItemQuery struct {
	ValueTier      model.ValueTier
	Category       model.Category
	Status         model.ItemStatus
	ExcludeOwnerID string
	Limit          int
}

// CatalogRepository определяет контракт доступа к каталогу предметов.
type CatalogRepository interface {
	// QueryItems возвращает предметы по фильтру, упорядоченные по owner_id, затем created_at DESC.
	QueryItems(ctx context.Context, q ItemQuery) ([]model.Item, error)
	// ItemsByOwner возвращает предметы владельца, старые первыми.
	ItemsByOwner(ctx context.Context, ownerID string) ([]model.Item, error)
	// GetItemByID возвращает предмет или gorm.ErrRecordNotFound.
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	// CreateItem сохраняет новый предмет.
	CreateItem(ctx context.Context, it *model.Item) error
}

type itemRepo struct {
	db *gorm.DB
}

// NewCatalogRepository создаёт gorm-реализацию каталога.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) QueryItems(ctx context.Context, q ItemQuery) ([]model.Item, error) {
	tx := r.db.WithContext(ctx).Model(&model.Item{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.ValueTier != "" {
		tx = tx.Where("value_tier = ?", q.ValueTier)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.ExcludeOwnerID != "" {
		tx = tx.Where("owner_id <> ?", q.ExcludeOwnerID)
	}
	// порядок как у составного индекса: неравенство по owner_id + сортировка по времени
	tx = tx.Order("owner_id").Order("created_at DESC").Order("id")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var items []model.Item
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) ItemsByOwner(ctx context.Context, ownerID string) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) CreateItem(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}
