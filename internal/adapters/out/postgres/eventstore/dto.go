// Package eventstore persists order event logs and snapshots in PostgreSQL.
// Events are append-only rows keyed by (order_id, version); the composite
// primary key doubles as the optimistic concurrency check, so two writers
// appending after the same version collide on insert instead of silently
// interleaving.
package eventstore

import (
	"encoding/json"
	"time"

	"pos/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// EventDTO is one persisted event envelope.
type EventDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	OrgID     uuid.UUID `gorm:"type:uuid;index"`
	SiteID    uuid.UUID `gorm:"type:uuid;index"`
	EventType string    `gorm:"size:64"`
	Payload   []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// TableName specifies the database table name for order events.
func (EventDTO) TableName() string {
	return "order_events"
}

// SnapshotDTO is the latest materialized state of one order, refreshed on
// every append. Readers and reporting queries hit this table; replay never
// does.
type SnapshotDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID     uuid.UUID `gorm:"type:uuid;index"`
	SiteID    uuid.UUID `gorm:"type:uuid;index"`
	Status    string    `gorm:"size:32;index"`
	Version   int
	Payload   []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// TableName specifies the database table name for order snapshots.
func (SnapshotDTO) TableName() string {
	return "order_snapshots"
}

func snapshotFromDomain(snapshot order.Snapshot) (SnapshotDTO, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return SnapshotDTO{}, err
	}

	return SnapshotDTO{
		OrderID: snapshot.OrderID.Bytes(),
		OrgID:   snapshot.OrgID.Bytes(),
		SiteID:  snapshot.SiteID.Bytes(),
		Status:  snapshot.StatusName,
		Version: snapshot.Version,
		Payload: payload,
	}, nil
}

func snapshotToDomain(dto SnapshotDTO) (order.Snapshot, error) {
	var snapshot order.Snapshot
	if err := json.Unmarshal(dto.Payload, &snapshot); err != nil {
		return order.Snapshot{}, err
	}
	return snapshot, nil
}
