// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Field values, validation state, status history and links live in JSONB
// columns; the version column backs optimistic concurrency control.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      string    `gorm:"uniqueIndex"`
	FormID      uuid.UUID `gorm:"type:uuid;index"`
	FormVersion int
	Title       string
	Owner       string `gorm:"index"`
	Status      string `gorm:"index"`
	Version     int
	Values      json.RawMessage `gorm:"type:jsonb"`
	Invalid     json.RawMessage `gorm:"type:jsonb"`
	History     json.RawMessage `gorm:"type:jsonb"`
	Links       json.RawMessage `gorm:"type:jsonb"`
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Attachments pq.StringArray  `gorm:"type:text[]"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderNumberDTO backs the sequential order number allocation table.
// Allocation is a plain insert so it participates in the surrounding
// transaction and rolls back with it.
type OrderNumberDTO struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`
}

// TableName specifies the database table name for number allocations.
func (OrderNumberDTO) TableName() string {
	return "order_numbers"
}

// linkDTO is the JSONB shape of one external link.
type linkDTO struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

// fromDomain converts an order domain aggregate to its database representation.
// The version column carries the revision the aggregate was loaded at; the
// repository bumps it on update.
func fromDomain(o *order.Order) (OrderDTO, error) {
	values, err := json.Marshal(o.Values())
	if err != nil {
		return OrderDTO{}, err
	}
	invalid, err := json.Marshal(o.Invalid())
	if err != nil {
		return OrderDTO{}, err
	}
	history, err := json.Marshal(o.History())
	if err != nil {
		return OrderDTO{}, err
	}

	linkDTOs := make([]linkDTO, 0, len(o.ExternalLinks()))
	for _, l := range o.ExternalLinks() {
		linkDTOs = append(linkDTOs, linkDTO{Href: l.Href, Title: l.Title})
	}
	links, err := json.Marshal(linkDTOs)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:          o.ID().Bytes(),
		Number:      o.Number(),
		FormID:      o.FormID().Bytes(),
		FormVersion: o.FormVersion(),
		Title:       o.Title(),
		Owner:       o.Owner(),
		Status:      o.Status(),
		Version:     o.Version(),
		Values:      values,
		Invalid:     invalid,
		History:     history,
		Links:       links,
		Tags:        pq.StringArray(o.Tags()),
		Attachments: pq.StringArray(o.Attachments()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	formID, err := kernel.UUIDFromBytes(dto.FormID[:])
	if err != nil {
		return nil, err
	}

	var values map[string]any
	if err = json.Unmarshal(dto.Values, &values); err != nil {
		return nil, err
	}
	var invalid map[string]string
	if err = json.Unmarshal(dto.Invalid, &invalid); err != nil {
		return nil, err
	}
	var history map[string]string
	if err = json.Unmarshal(dto.History, &history); err != nil {
		return nil, err
	}
	var linkDTOs []linkDTO
	if err = json.Unmarshal(dto.Links, &linkDTOs); err != nil {
		return nil, err
	}

	links := make([]order.ExternalLink, 0, len(linkDTOs))
	for _, l := range linkDTOs {
		links = append(links, order.ExternalLink{Href: l.Href, Title: l.Title})
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		formID,
		dto.FormVersion,
		dto.Title, dto.Owner, dto.Status,
		dto.Version,
		values,
		invalid,
		history,
		[]string(dto.Tags),
		links,
		[]string(dto.Attachments),
		dto.CreatedAt, dto.UpdatedAt,
	)
}
