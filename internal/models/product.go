package models

import (
	"time"

	"store/internal/apperr"
	"store/pkg/validator"
)

// Field names of the persisted product document.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldQuantity  = "quantity"
	FieldPrice     = "price"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Product is the canonical representation: what is persisted and what is
// returned to callers. All seven fields are always populated.
type Product struct {
	ID        string    `json:"id" bson:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	Name      string    `json:"name" bson:"name" gorm:"not null" validate:"required"`
	Quantity  int       `json:"quantity" bson:"quantity" gorm:"not null"`
	Price     float64   `json:"price" bson:"price" gorm:"not null"`
	Status    bool      `json:"status" bson:"status" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" gorm:"not null;autoCreateTime:false" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" gorm:"not null;autoUpdateTime:false" validate:"required,gtefield=CreatedAt"`
}

// ProductIn is the caller-supplied data needed to create a product. It never
// carries id or timestamps.
type ProductIn struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Status   bool    `json:"status"`
}

// ProductUpdate is a partial update. Absent fields leave the stored value
// untouched. There is deliberately no id or created_at field.
type ProductUpdate struct {
	Name     Optional[string]
	Quantity Optional[int]
	Price    Optional[float64]
	Status   Optional[bool]
}

// NewProduct assembles the canonical record for a new product. Both
// timestamps are set to now.
func NewProduct(id string, in ProductIn, now time.Time) *Product {
	return &Product{
		ID:        id,
		Name:      in.Name,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithUpdate returns a copy of p with every field present in u replaced.
// Timestamps and id are left as they are.
func (p Product) WithUpdate(u ProductUpdate) Product {
	if v, ok := u.Name.Get(); ok {
		p.Name = v
	}
	if v, ok := u.Quantity.Get(); ok {
		p.Quantity = v
	}
	if v, ok := u.Price.Get(); ok {
		p.Price = v
	}
	if v, ok := u.Status.Get(); ok {
		p.Status = v
	}
	return p
}

// Validate checks that p is a fully hydrated canonical record.
func (p *Product) Validate() error {
	return toValidationError(validator.ValidateStruct(p))
}

// Validate re-checks a creation input built in Go rather than parsed.
func (in ProductIn) Validate() error {
	return toValidationError(validator.ValidateStruct(in))
}

// Validate checks the fields that are present.
func (u ProductUpdate) Validate() error {
	if name, ok := u.Name.Get(); ok {
		return toValidationError(validator.ValidateVar(FieldName, name, "required"))
	}
	return nil
}

// IsEmpty reports whether no field is present.
func (u ProductUpdate) IsEmpty() bool {
	return !u.Name.IsSet() && !u.Quantity.IsSet() && !u.Price.IsSet() && !u.Status.IsSet()
}

func toValidationError(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	verr := &apperr.ValidationError{}
	for _, e := range errs {
		verr.Add(e.FailedField, validator.Describe(e))
	}
	return verr
}
