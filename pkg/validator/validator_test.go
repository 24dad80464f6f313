package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string    `json:"name" validate:"required"`
	Count     int       `json:"count,omitempty" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" validate:"required,gtefield=CreatedAt"`
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	now := time.Now()
	errs := ValidateStruct(sample{Count: -1, CreatedAt: now, UpdatedAt: now.Add(-time.Second)})

	require.Len(t, errs, 3)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.FailedField] = e.Tag
	}
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "gte", fields["count"])
	assert.Equal(t, "gtefield", fields["updated_at"])
}

func TestValidateStruct_Valid(t *testing.T) {
	now := time.Now()
	assert.Empty(t, ValidateStruct(sample{Name: "ok", CreatedAt: now, UpdatedAt: now}))
}

func TestValidateVar(t *testing.T) {
	errs := ValidateVar("name", "", "required")
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].FailedField)
	assert.Equal(t, "must not be empty", Describe(errs[0]))

	assert.Empty(t, ValidateVar("name", "Widget", "required"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "must be at least 1", Describe(&ErrorResponse{Tag: "min", Value: "1"}))
	assert.Equal(t, "must not be before CreatedAt", Describe(&ErrorResponse{Tag: "gtefield", Value: "CreatedAt"}))
	assert.Equal(t, "failed on the 'uuid4' rule", Describe(&ErrorResponse{Tag: "uuid4"}))
}
