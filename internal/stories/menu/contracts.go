package menu

import "context"

type (
	Storage interface {
		GetMenuItem(ctx context.Context, criteria GetCriteria) (*Item, error)
		ListMenuItems(ctx context.Context, criteria ListCriteria) ([]*Item, error)
		UpsertMenuItem(ctx context.Context, item Item) (*Item, error)
	}
)
