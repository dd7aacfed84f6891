package types

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Rating bounds, inclusive.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// TimestampLayout is the text form of CreatedAt in the database and in
// exported files.
const TimestampLayout = "2006-01-02 15:04:05"

// Book is one catalog entry.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title" validate:"notblank"`
	Author    string    `json:"author" validate:"notblank"`
	Genre     string    `json:"genre" validate:"notblank"`
	Year      *int      `json:"year,omitempty"`
	Publisher string    `json:"publisher,omitempty"`
	Read      bool      `json:"read"`
	Rating    *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the field rules of a Book. It returns a *ValidationError
// listing every failing field.
func (b *Book) Validate() error {
	if b == nil {
		return ErrInvalidData
	}
	if err := bookValidator().Struct(b); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
		for _, fe := range fieldErrs {
			ve.Fields[fe.Field()] = friendlyMessage(fe)
		}
		return ve
	}
	return nil
}

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports input that was rejected before anything was
// written. Fields maps a field name to a human-readable problem.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// bookValidator returns the shared validator, configured to report json
// field names and to understand the notblank tag.
func bookValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(fmt.Sprintf("register notblank: %v", err))
		}
		validate = v
	})
	return validate
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
