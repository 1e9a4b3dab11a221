package menu

import (
	"context"
	_ "embed"

	"github.com/go-faster/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

var ErrItemNotFound = errors.New("menu item not found")

// Service provides read access to the catalog
type Service struct {
	storage Storage
}

// NewService creates a new catalog service
func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// GetItem returns the item or ErrItemNotFound.
func (s *Service) GetItem(ctx context.Context, itemID string) (*Item, error) {
	item, err := s.storage.GetMenuItem(ctx, GetCriteria{ID: lo.ToPtr(itemID)})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.Wrapf(ErrItemNotFound, "item %q", itemID)
	}
	return item, nil
}

// PriceOf returns the current unit price of an item.
func (s *Service) PriceOf(ctx context.Context, itemID string) (decimal.Decimal, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return item.Price, nil
}

// ListByCategory returns available items of one category.
func (s *Service) ListByCategory(ctx context.Context, category Category) ([]*Item, error) {
	return s.storage.ListMenuItems(ctx, ListCriteria{
		Category:  lo.ToPtr(category),
		Available: lo.ToPtr(true),
		Limit:     100,
	})
}

type seedFile struct {
	Items []struct {
		ID          string   `yaml:"id"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Category    Category `yaml:"category"`
		Price       string   `yaml:"price"`
	} `yaml:"items"`
}

// Seed upserts the embedded menu. Running it on every start keeps prices in sync with seed.yaml.
func (s *Service) Seed(ctx context.Context) (int, error) {
	items, err := parseSeed(seedYAML)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		if _, err := s.storage.UpsertMenuItem(ctx, item); err != nil {
			return 0, errors.Wrapf(err, "upsert %q", item.ID)
		}
	}

	return len(items), nil
}

func parseSeed(data []byte) ([]Item, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse menu seed")
	}

	items := make([]Item, 0, len(f.Items))
	for i, raw := range f.Items {
		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "item %q price", raw.ID)
		}
		if raw.Category != CategoryShawarma && raw.Category != CategoryDrinks {
			return nil, errors.Errorf("item %q: unknown category %q", raw.ID, raw.Category)
		}

		items = append(items, Item{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: raw.Description,
			Category:    raw.Category,
			Price:       price,
			SortOrder:   i,
			Available:   true,
		})
	}

	return items, nil
}
