package eventstore

import (
	"context"
	"errors"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventStore implements the EventStore port using GORM.
type GormEventStore struct {
	db *gorm.DB
}

// NewGormEventStore creates a new GORM-backed event store.
func NewGormEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{db: db}
}

// Migrate creates or updates the event and snapshot tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&EventDTO{}, &SnapshotDTO{})
}

// Append persists the events after the expected version and refreshes the
// order's snapshot, atomically. A concurrent writer that already appended
// at the same versions trips the (order_id, version) primary key, which is
// surfaced as errs.ErrVersionIsInvalid for the caller to retry on fresh
// state.
func (s *GormEventStore) Append(ctx context.Context, address kernel.Address, expectedVersion int, events []order.Event, snapshot order.Snapshot) error {
	if err := address.Validate(); err != nil {
		return err
	}
	if len(events) == 0 {
		return errs.NewValueIsRequiredError("events")
	}

	dtos := make([]EventDTO, 0, len(events))
	for i, event := range events {
		payload, err := order.EncodeEvent(event)
		if err != nil {
			return err
		}
		dtos = append(dtos, EventDTO{
			OrderID:   address.OrderID().Bytes(),
			Version:   expectedVersion + i + 1,
			OrgID:     address.OrgID().Bytes(),
			SiteID:    address.SiteID().Bytes(),
			EventType: event.EventType(),
			Payload:   payload,
		})
	}

	snapshotDTO, err := snapshotFromDomain(snapshot)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dtos).Error; err != nil {
			if isDuplicateKey(err) {
				return errs.NewVersionIsInvalidError("expected version", err)
			}
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).Create(&snapshotDTO).Error
	})
}

// Load reads an order's full event log in version order and decodes it.
func (s *GormEventStore) Load(ctx context.Context, address kernel.Address) ([]order.Event, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	var dtos []EventDTO
	err := s.db.WithContext(ctx).
		Where("order_id = ?", address.OrderID().Bytes()).
		Order("version ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]order.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, err := order.DecodeEvent(dto.EventType, dto.Payload)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// LoadSnapshot reads the latest stored snapshot without replaying the log.
func (s *GormEventStore) LoadSnapshot(ctx context.Context, address kernel.Address) (order.Snapshot, error) {
	if err := address.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	var dto SnapshotDTO
	err := s.db.WithContext(ctx).
		First(&dto, "order_id = ?", address.OrderID().Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Snapshot{}, errs.NewObjectNotFoundError("order snapshot", address.OrderID().String())
		}
		return order.Snapshot{}, err
	}

	return snapshotToDomain(dto)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
