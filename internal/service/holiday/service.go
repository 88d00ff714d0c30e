package holiday

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
	"github.com/google/uuid"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) *HolidayServiceImpl {
	return &HolidayServiceImpl{HolidayRepository: holidayRepo}
}

// List implements holiday.HolidayService.
func (h *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	var from, to *civil.Date
	if filter.Year != nil {
		first := civil.Date{Year: *filter.Year, Month: 1, Day: 1}
		last := civil.Date{Year: *filter.Year, Month: 12, Day: 31}
		from, to = &first, &last
	}

	holidays, err := h.HolidayRepository.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	out := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, hd := range holidays {
		out = append(out, holiday.ToResponse(hd))
	}
	return out, nil
}

// Create implements holiday.HolidayService.
func (h *HolidayServiceImpl) Create(ctx context.Context, req holiday.HolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	date, err := civil.Parse(req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	exists, err := h.HolidayRepository.ExistsOn(ctx, date)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to check holiday date: %w", err)
	}
	if exists {
		return holiday.HolidayResponse{}, holiday.ErrHolidayDateExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to generate holiday id: %w", err)
	}

	created, err := h.HolidayRepository.Create(ctx, holiday.Holiday{
		ID:   id.String(),
		Name: strings.TrimSpace(req.Name),
		Date: date,
	})
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayDateExists) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday.ToResponse(created), nil
}

// Update implements holiday.HolidayService.
func (h *HolidayServiceImpl) Update(ctx context.Context, req holiday.HolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	date, err := civil.Parse(req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	updated, err := h.HolidayRepository.Update(ctx, holiday.Holiday{
		ID:   req.ID,
		Name: strings.TrimSpace(req.Name),
		Date: date,
	})
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) || errors.Is(err, holiday.ErrHolidayDateExists) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return holiday.ToResponse(updated), nil
}

// Delete implements holiday.HolidayService.
func (h *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if err := h.HolidayRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}
