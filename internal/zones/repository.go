package zones

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrZoneNotFound = errors.New("zone not found")
	ErrSlotNotFound = errors.New("slot not found")
)

type Repository interface {
	CreateZone(ctx context.Context, zone *Zone) error
	GetZone(ctx context.Context, id string) (*Zone, error)
	ListZones(ctx context.Context) ([]Zone, error)
	ZoneCounts(ctx context.Context) (map[string]SlotCounts, error)

	CreateSlots(ctx context.Context, slots []Slot) error
	GetSlot(ctx context.Context, id string) (*Slot, error)
	ListSlotsByZone(ctx context.Context, zoneID string) ([]Slot, error)

	// LockSlot reads the slot with SELECT ... FOR UPDATE; only meaningful
	// on a repository bound to a transaction.
	LockSlot(ctx context.Context, id string) (*Slot, error)
	UpdateSlotStatus(ctx context.Context, id string, status SlotStatus) error
}

// SlotCounts aggregates a zone's slots
type SlotCounts struct {
	Total     int
	Available int
	OKU       int
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds to db, which may be a transaction handle
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateZone(ctx context.Context, zone *Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *repository) GetZone(ctx context.Context, id string) (*Zone, error) {
	var zone Zone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return &zone, nil
}

func (r *repository) ListZones(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&zones).Error
	return zones, err
}

func (r *repository) ZoneCounts(ctx context.Context) (map[string]SlotCounts, error) {
	type row struct {
		ZoneID    string
		Total     int
		Available int
		OKU       int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Slot{}).
		Select(`zone_id,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = ?) AS available,
			COUNT(*) FILTER (WHERE type = ?) AS oku`, SlotStatusAvailable, SlotTypeOKU).
		Group("zone_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]SlotCounts, len(rows))
	for _, r := range rows {
		counts[r.ZoneID] = SlotCounts{Total: r.Total, Available: r.Available, OKU: r.OKU}
	}
	return counts, nil
}

func (r *repository) CreateSlots(ctx context.Context, slots []Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(slots, 100).Error
}

func (r *repository) GetSlot(ctx context.Context, id string) (*Slot, error) {
	var slot Slot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) ListSlotsByZone(ctx context.Context, zoneID string) ([]Slot, error) {
	var slots []Slot
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("label ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) LockSlot(ctx context.Context, id string) (*Slot, error) {
	var slot Slot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) UpdateSlotStatus(ctx context.Context, id string, status SlotStatus) error {
	result := r.db.WithContext(ctx).Model(&Slot{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
