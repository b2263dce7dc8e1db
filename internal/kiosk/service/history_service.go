package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/store"
	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 500
)

type HistoryService struct {
	checkins store.CheckinStore
}

func NewHistoryService(checkins store.CheckinStore) *HistoryService {
	return &HistoryService{checkins: checkins}
}

// ListCheckins returns one page of the ledger, newest first.  page and limit
// arrive as raw query values; anything missing, non-numeric or non-positive
// falls back to the defaults, and limit is capped at MaxLimit.
func (s *HistoryService) ListCheckins(ctx context.Context, pageRaw, limitRaw string) (types.HistoryResponse, error) {
	page := parsePositive(pageRaw, DefaultPage)
	limit := parsePositive(limitRaw, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total, err := s.checkins.Count(ctx)
	if err != nil {
		return types.HistoryResponse{}, fmt.Errorf("ListCheckins count: %w", err)
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)

	data := []types.CheckinView{}
	// Pages past the end are empty; skipping the query also keeps the
	// offset from overflowing on absurd page numbers.
	if int64(page) <= totalPages {
		rows, err := s.checkins.ListWithMembers(ctx, (page-1)*limit, limit)
		if err != nil {
			return types.HistoryResponse{}, fmt.Errorf("ListCheckins list: %w", err)
		}
		for _, r := range rows {
			data = append(data, checkinView(r))
		}
	}

	return types.HistoryResponse{
		Success: true,
		Data:    data,
		Pagination: types.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
