package service

import (
	"Trades/internal/model"
	"Trades/internal/repo"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemInput — данные нового объявления.
type ItemInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Photos         []string `json:"photos"`
	ValueTier      string   `json:"value_tier"`
	Category       string   `json:"category"`
	PickupLocation string   `json:"pickup_location"`
}

// ItemService — размещение предметов в каталоге.
type ItemService struct {
	catalog repo.CatalogRepository
	logger  *zap.SugaredLogger
}

func NewItemService(catalog repo.CatalogRepository, logger *zap.SugaredLogger) *ItemService {
	return &ItemService{catalog: catalog, logger: logger}
}

// CreateItem валидирует вход и создаёт активный предмет владельца.
func (s *ItemService) CreateItem(ctx context.Context, ownerID string, in ItemInput) (*model.Item, error) {
	if ownerID == "" {
		return nil, ErrNoUser
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	tier, ok := model.ParseValueTier(in.ValueTier)
	if !ok || tier == "" {
		return nil, fmt.Errorf("%w: value tier %q", ErrInvalidItem, in.ValueTier)
	}
	cat, ok := model.ParseCategory(in.Category)
	if !ok || cat == "" {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidItem, in.Category)
	}
	photos := make([]string, 0, len(in.Photos))
	for _, p := range in.Photos {
		u, err := url.Parse(strings.TrimSpace(p))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: photo %q is not an absolute URL", ErrInvalidItem, p)
		}
		photos = append(photos, u.String())
	}

	it := &model.Item{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Photos:         photos,
		ValueTier:      tier,
		Category:       cat,
		PickupLocation: strings.TrimSpace(in.PickupLocation),
		Status:         model.StatusActive,
	}
	if err := s.catalog.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.logger.Infow("item listed", "item_id", it.ID, "owner_id", ownerID, "tier", tier, "category", cat)
	return it, nil
}

// GetItem возвращает предмет или ErrItemNotFound.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*model.Item, error) {
	if itemID == "" {
		return nil, ErrEmptyItemID
	}
	it, err := s.catalog.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}
