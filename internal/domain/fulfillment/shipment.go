package fulfillment

import (
	"strings"
	"time"

	"github.com/commercebay/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ShipmentStatus is the lifecycle state of a shipment
type ShipmentStatus string

// Shipment statuses
const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusReceived  ShipmentStatus = "received"
)

// Shipment tracks the physical movement of one transfer's goods. Its
// transitions drive the transfer's ledger moves: entering transit ships
// at the origin, receipt books stock at the destination.
type Shipment struct {
	shared.StoreAggregateRoot
	TransferID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Status         ShipmentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Carrier        string         `gorm:"type:varchar(100)"`
	TrackingNumber string         `gorm:"type:varchar(100)"`
	TrackingURL    string         `gorm:"type:varchar(500)"`
	ShippedAt      *time.Time
	ReceivedAt     *time.Time
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// NewShipment creates a pending shipment for a transfer
func NewShipment(storeID, transferID uuid.UUID, carrier string) (*Shipment, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if transferID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Shipment must belong to a transfer")
	}
	return &Shipment{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		TransferID:         transferID,
		Status:             ShipmentStatusPending,
		Carrier:            strings.TrimSpace(carrier),
	}, nil
}

// SetTracking attaches carrier tracking metadata. Allowed until receipt.
func (s *Shipment) SetTracking(number, url string) error {
	if s.Status == ShipmentStatusReceived {
		return shared.NewDomainError("INVALID_STATE", "Cannot update tracking on a received shipment")
	}
	s.TrackingNumber = strings.TrimSpace(number)
	s.TrackingURL = strings.TrimSpace(url)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// MarkInTransit records departure. A shipment enters transit exactly
// once; a second call fails on the status guard.
func (s *Shipment) MarkInTransit() error {
	if s.Status != ShipmentStatusPending {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Shipment cannot enter transit from "+string(s.Status))
	}
	now := time.Now()
	s.Status = ShipmentStatusInTransit
	s.ShippedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	s.AddDomainEvent(NewShipmentStatusChangedEvent(s, ShipmentStatusPending))
	return nil
}

// MarkReceived records arrival. Only legal from in_transit.
func (s *Shipment) MarkReceived() error {
	if s.Status != ShipmentStatusInTransit {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Shipment cannot be received from "+string(s.Status))
	}
	now := time.Now()
	s.Status = ShipmentStatusReceived
	s.ReceivedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	s.AddDomainEvent(NewShipmentStatusChangedEvent(s, ShipmentStatusInTransit))
	return nil
}
