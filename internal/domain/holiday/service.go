package holiday

import (
	"context"
)

type HolidayService interface {
	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
	Create(ctx context.Context, req HolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, req HolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}
