package zones

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campuspark/internal/shared/constants"
	"campuspark/pkg/cache"
	"campuspark/pkg/logger"
)

var (
	ErrZoneExists        = errors.New("zone already exists")
	ErrInvalidSlotType   = errors.New("invalid slot type")
	ErrInvalidSlotStatus = errors.New("invalid slot status")
)

type Service interface {
	ListZones(ctx context.Context) ([]ZoneSummary, error)
	GetZone(ctx context.Context, zoneID string) (*ZoneSummary, error)
	GetZoneSlots(ctx context.Context, zoneID string) (*ZoneSlotsResponse, error)

	CreateZone(ctx context.Context, req CreateZoneRequest) (*Zone, error)
	CreateSlots(ctx context.Context, zoneID string, req CreateSlotsRequest) ([]SlotResponse, error)
	UpdateSlotStatus(ctx context.Context, slotID string, status string) (*SlotResponse, error)

	// InvalidateSlots drops cached listings after a slot changes hands
	InvalidateSlots(ctx context.Context, zoneID string)
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) ListZones(ctx context.Context) ([]ZoneSummary, error) {
	fetch := func() (interface{}, error) {
		return s.loadZoneSummaries(ctx)
	}

	if s.cacheService == nil {
		return s.loadZoneSummaries(ctx)
	}

	var summaries []ZoneSummary
	if err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_ZONES_ALL, constants.TTL_ZONES_ALL, fetch, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *service) loadZoneSummaries(ctx context.Context) ([]ZoneSummary, error) {
	zones, err := s.repo.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	counts, err := s.repo.ZoneCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count slots: %w", err)
	}

	summaries := make([]ZoneSummary, 0, len(zones))
	for _, z := range zones {
		c := counts[z.ID]
		summaries = append(summaries, ZoneSummary{
			ID:             z.ID,
			Name:           z.Name,
			Description:    z.Description,
			TotalSlots:     c.Total,
			AvailableSlots: c.Available,
			OKUSlots:       c.OKU,
		})
	}
	return summaries, nil
}

func (s *service) GetZone(ctx context.Context, zoneID string) (*ZoneSummary, error) {
	load := func() (*ZoneSummary, error) {
		zone, err := s.repo.GetZone(ctx, zoneID)
		if err != nil {
			return nil, err
		}
		counts, err := s.repo.ZoneCounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count slots: %w", err)
		}
		c := counts[zone.ID]
		return &ZoneSummary{
			ID:             zone.ID,
			Name:           zone.Name,
			Description:    zone.Description,
			TotalSlots:     c.Total,
			AvailableSlots: c.Available,
			OKUSlots:       c.OKU,
		}, nil
	}

	if s.cacheService == nil {
		return load()
	}

	var summary ZoneSummary
	err := s.cacheService.GetOrSet(ctx, constants.BuildZoneDetailKey(zoneID), constants.TTL_ZONE_DETAIL,
		func() (interface{}, error) { return load() }, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) GetZoneSlots(ctx context.Context, zoneID string) (*ZoneSlotsResponse, error) {
	load := func() (*ZoneSlotsResponse, error) {
		zone, err := s.repo.GetZone(ctx, zoneID)
		if err != nil {
			return nil, err
		}
		slots, err := s.repo.ListSlotsByZone(ctx, zoneID)
		if err != nil {
			return nil, fmt.Errorf("failed to list slots: %w", err)
		}

		resp := &ZoneSlotsResponse{
			ZoneID:   zone.ID,
			ZoneName: zone.Name,
			Slots:    make([]SlotResponse, 0, len(slots)),
			Total:    len(slots),
		}
		for _, slot := range slots {
			if slot.Status == SlotStatusAvailable {
				resp.Available++
			}
			resp.Slots = append(resp.Slots, toSlotResponse(slot))
		}
		return resp, nil
	}

	if s.cacheService == nil {
		return load()
	}

	var resp ZoneSlotsResponse
	err := s.cacheService.GetOrSet(ctx, constants.BuildZoneSlotsKey(zoneID), constants.TTL_ZONE_SLOTS,
		func() (interface{}, error) { return load() }, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) CreateZone(ctx context.Context, req CreateZoneRequest) (*Zone, error) {
	id := strings.ToLower(strings.TrimSpace(req.ID))
	if _, err := s.repo.GetZone(ctx, id); err == nil {
		return nil, ErrZoneExists
	} else if !errors.Is(err, ErrZoneNotFound) {
		return nil, fmt.Errorf("failed to check zone: %w", err)
	}

	zone := &Zone{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	s.invalidate(ctx, constants.CACHE_KEY_ZONES_ALL)
	return zone, nil
}

func (s *service) CreateSlots(ctx context.Context, zoneID string, req CreateSlotsRequest) ([]SlotResponse, error) {
	if _, err := s.repo.GetZone(ctx, zoneID); err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, len(req.Slots))
	for _, r := range req.Slots {
		slotType := SlotType(r.Type)
		if !slotType.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSlotType, r.Type)
		}
		label := strings.ToUpper(strings.TrimSpace(r.Label))
		slots = append(slots, Slot{
			ID:     SlotID(zoneID, label),
			ZoneID: zoneID,
			Label:  label,
			Type:   slotType,
			Status: SlotStatusAvailable,
		})
	}

	if err := s.repo.CreateSlots(ctx, slots); err != nil {
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}

	s.InvalidateSlots(ctx, zoneID)

	out := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotResponse(slot))
	}
	return out, nil
}

func (s *service) UpdateSlotStatus(ctx context.Context, slotID string, status string) (*SlotResponse, error) {
	next := SlotStatus(status)
	if !next.IsValid() {
		return nil, ErrInvalidSlotStatus
	}

	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSlotStatus(ctx, slotID, next); err != nil {
		return nil, err
	}
	slot.Status = next

	s.InvalidateSlots(ctx, slot.ZoneID)
	resp := toSlotResponse(*slot)
	return &resp, nil
}

func (s *service) InvalidateSlots(ctx context.Context, zoneID string) {
	s.invalidate(ctx,
		constants.BuildZoneSlotsKey(zoneID),
		constants.BuildZoneDetailKey(zoneID),
		constants.CACHE_KEY_ZONES_ALL,
	)
}

func (s *service) invalidate(ctx context.Context, keys ...string) {
	if s.cacheService == nil {
		return
	}
	for _, key := range keys {
		if err := s.cacheService.Delete(ctx, key); err != nil {
			logger.GetDefault().WithError(err).WithFields(map[string]interface{}{"key": key}).Warn("failed to invalidate zone cache")
		}
	}
}

// SlotID derives the stable slot key, e.g. ("zone-a", "A01") -> "zone-a-a01"
func SlotID(zoneID, label string) string {
	return zoneID + "-" + strings.ToLower(label)
}
