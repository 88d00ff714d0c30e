package holiday

import (
	"context"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error

	// List returns holidays ordered by date; nil bounds are open
	List(ctx context.Context, from, to *civil.Date) ([]Holiday, error)
	ExistsOn(ctx context.Context, date civil.Date) (bool, error)
}
