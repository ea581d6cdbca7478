package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"shopcatalog/internal/models"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// nonFieldErrors collects errors that belong to no single field.
const nonFieldErrors = "non_field_errors"

// validate is shared by all handlers; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterAlias("stars", fmt.Sprintf("gte=%d,lte=%d", models.MinStars, models.MaxStars))
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a JSON field name to its violation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has reports whether field already has a message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// input is implemented by every request payload.
type input interface {
	normalize()
}

// productInput is the create/update payload for products. It is also the
// shape returned by the product detail view.
type productInput struct {
	Title       *string  `json:"title" validate:"required,min=1,max=255"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    []int64  `json:"category" validate:"required,dive,gte=1"`
}

func (in *productInput) normalize() {
	trimPtr(in.Title)
	trimPtr(in.Description)
}

func (in *productInput) toModel(id int64) *models.Product {
	return &models.Product{
		ID:          id,
		Title:       *in.Title,
		Description: *in.Description,
		Price:       *in.Price,
		CategoryIDs: in.Category,
	}
}

// categoryInput is the create/update payload for categories.
type categoryInput struct {
	Name *string `json:"name" validate:"required,min=1,max=255"`
}

func (in *categoryInput) normalize() {
	trimPtr(in.Name)
}

// reviewInput is the create/update payload for reviews and the shape
// returned by the review detail view.
type reviewInput struct {
	Text      *string `json:"text" validate:"required,min=1"`
	ProductID *int64  `json:"product_id" validate:"required,gte=1"`
	Stars     *int    `json:"stars" validate:"required,stars"`
}

func (in *reviewInput) normalize() {
	trimPtr(in.Text)
}

func (in *reviewInput) toModel(id int64) *models.Review {
	return &models.Review{
		ID:        id,
		Text:      *in.Text,
		ProductID: *in.ProductID,
		Stars:     *in.Stars,
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// bind decodes the JSON body into dst and validates it. It returns nil when
// the payload is valid. An empty body is treated as an empty object so that
// every required field is reported.
func bind(w http.ResponseWriter, r *http.Request, dst input) FieldErrors {
	errs := FieldErrors{}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		// Exactly one JSON value per body.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			errs.Add(nonFieldErrors, "JSON parse error - unexpected data after the top-level value")
			return errs
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			field := strings.SplitN(typeErr.Field, ".", 2)[0]
			errs.Add(field, typeMessage(typeErr))
		case errors.As(err, &typeErr):
			errs.Add(nonFieldErrors, fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonKind(typeErr.Value)))
			return errs
		case errors.As(err, &sizeErr):
			errs.Add(nonFieldErrors, "Request body too large.")
			return errs
		default:
			errs.Add(nonFieldErrors, "JSON parse error - "+err.Error())
			return errs
		}
	}

	dst.normalize()

	// A field with a type error holds the zero value decoding left behind,
	// so rule failures on it say nothing new.
	mistyped := make(map[string]bool, len(errs))
	for field := range errs {
		mistyped[field] = true
	}

	var verrs validator.ValidationErrors
	if err := validate.Struct(dst); errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.SplitN(fe.Field(), "[", 2)[0]
			if mistyped[field] {
				continue
			}
			errs.Add(field, fieldMessage(field, fe))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// fieldMessage renders a validator failure the way API clients expect it.
func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		if field == "category" {
			return fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(fe.Value()))
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

// typeMessage describes a JSON value of the wrong type for its field.
func typeMessage(e *json.UnmarshalTypeError) string {
	t := e.Type
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "Not a valid string."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.Slice:
		return fmt.Sprintf("Expected a list of items but got type %q.", jsonKind(e.Value))
	default:
		return "Invalid value."
	}
}

// jsonKind maps encoding/json's value names to the names clients send.
func jsonKind(v string) string {
	switch {
	case v == "array":
		return "list"
	case v == "object":
		return "dict"
	case strings.HasPrefix(v, "number"):
		return "number"
	}
	return v
}
