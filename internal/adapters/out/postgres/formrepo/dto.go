// Package formrepo provides data transfer objects and mapping functions for form persistence.
// The field definition tree is stored as a single JSONB document; the
// schema is resolved from it on load.
package formrepo

import (
	"encoding/json"
	"time"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// FormDTO represents the database structure for persisting form aggregates.
type FormDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	Version   int
	Status    int
	Fields    json.RawMessage `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for form entities.
func (FormDTO) TableName() string {
	return "forms"
}

// fieldDTO is the JSONB shape of one field definition node.
type fieldDTO struct {
	ID             string      `json:"id"`
	Label          string      `json:"label"`
	Type           string      `json:"type"`
	Required       bool        `json:"required,omitempty"`
	RestrictRead   bool        `json:"restrict_read,omitempty"`
	RestrictWrite  bool        `json:"restrict_write,omitempty"`
	Description    string      `json:"description,omitempty"`
	VisibleIfField string      `json:"visible_if_field,omitempty"`
	VisibleIfValue string      `json:"visible_if_value,omitempty"`
	EraseOnClone   bool        `json:"erase_on_clone,omitempty"`
	Options        []string    `json:"options,omitempty"`
	Columns        []columnDTO `json:"columns,omitempty"`
	Children       []fieldDTO  `json:"children,omitempty"`
}

// columnDTO is the JSONB shape of one table column spec.
type columnDTO struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

func fieldsToDTO(fields []form.FieldDefinition) []fieldDTO {
	dtos := make([]fieldDTO, 0, len(fields))
	for _, f := range fields {
		columns := make([]columnDTO, 0, len(f.Columns))
		for _, c := range f.Columns {
			columns = append(columns, columnDTO{
				ID:      c.ID,
				Type:    c.Type.String(),
				Options: c.Options,
			})
		}

		dtos = append(dtos, fieldDTO{
			ID:             f.ID,
			Label:          f.Label,
			Type:           f.Type.String(),
			Required:       f.Required,
			RestrictRead:   f.RestrictRead,
			RestrictWrite:  f.RestrictWrite,
			Description:    f.Description,
			VisibleIfField: f.VisibleIfField,
			VisibleIfValue: f.VisibleIfValue,
			EraseOnClone:   f.EraseOnClone,
			Options:        f.Options,
			Columns:        columns,
			Children:       fieldsToDTO(f.Children),
		})
	}
	return dtos
}

func fieldsToDomain(dtos []fieldDTO) ([]form.FieldDefinition, error) {
	fields := make([]form.FieldDefinition, 0, len(dtos))
	for _, d := range dtos {
		fieldType, err := form.ParseFieldType(d.Type)
		if err != nil {
			return nil, err
		}

		columns := make([]form.ColumnSpec, 0, len(d.Columns))
		for _, c := range d.Columns {
			columnType, colErr := form.ParseFieldType(c.Type)
			if colErr != nil {
				return nil, colErr
			}
			columns = append(columns, form.ColumnSpec{
				ID:      c.ID,
				Type:    columnType,
				Options: c.Options,
			})
		}

		children, err := fieldsToDomain(d.Children)
		if err != nil {
			return nil, err
		}

		fields = append(fields, form.FieldDefinition{
			ID:             d.ID,
			Label:          d.Label,
			Type:           fieldType,
			Required:       d.Required,
			RestrictRead:   d.RestrictRead,
			RestrictWrite:  d.RestrictWrite,
			Description:    d.Description,
			VisibleIfField: d.VisibleIfField,
			VisibleIfValue: d.VisibleIfValue,
			EraseOnClone:   d.EraseOnClone,
			Options:        d.Options,
			Columns:        columns,
			Children:       children,
		})
	}
	return fields, nil
}

// fromDomain converts a form domain aggregate to its database representation.
func fromDomain(f *form.Form) (FormDTO, error) {
	fields, err := json.Marshal(fieldsToDTO(f.Fields()))
	if err != nil {
		return FormDTO{}, err
	}

	return FormDTO{
		ID:        f.ID().Bytes(),
		Title:     f.Title(),
		Version:   f.Version(),
		Status:    int(f.Status()),
		Fields:    fields,
		CreatedAt: f.CreatedAt(),
		UpdatedAt: f.UpdatedAt(),
	}, nil
}

// toDomain converts a database DTO to a form domain aggregate.
// RestoreForm resolves the flat schema from the field tree.
func toDomain(dto FormDTO) (*form.Form, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var fieldDTOs []fieldDTO
	if err = json.Unmarshal(dto.Fields, &fieldDTOs); err != nil {
		return nil, err
	}

	fields, err := fieldsToDomain(fieldDTOs)
	if err != nil {
		return nil, err
	}

	return form.RestoreForm(id, dto.Title, dto.Version, form.FormStatus(dto.Status),
		fields, dto.CreatedAt, dto.UpdatedAt)
}
