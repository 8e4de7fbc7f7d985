// Package validation checks café submissions before they reach the store.
// Validation is purely local: it never looks at the database, so name
// uniqueness is left to the repository's unique constraint.
package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cafe-finder/internal/model"
)

// Submission is the raw input of the add-café form or the JSON API.
// Text fields are trimmed before validation; missing flags are false.
type Submission struct {
	Name         string `json:"name" form:"name" validate:"required,max=250"`
	Location     string `json:"location" form:"location" validate:"required,max=250"`
	MapURL       string `json:"map_url" form:"map_url" validate:"required,max=500,http_url"`
	ImgURL       string `json:"img_url" form:"img_url" validate:"required,max=500,http_url"`
	Seats        string `json:"seats" form:"seats" validate:"required,max=250"`
	CoffeePrice  string `json:"coffee_price" form:"coffee_price" validate:"required,max=250"`
	HasToilet    bool   `json:"has_toilet" form:"-"`
	HasWifi      bool   `json:"has_wifi" form:"-"`
	HasSockets   bool   `json:"has_sockets" form:"-"`
	CanTakeCalls bool   `json:"can_take_calls" form:"-"`
}

// FromForm builds a Submission from HTML form values.  Checkboxes are
// only sent when ticked, so absence means false.
func FromForm(v url.Values) Submission {
	return Submission{
		Name:         v.Get("name"),
		Location:     v.Get("location"),
		MapURL:       v.Get("map_url"),
		ImgURL:       v.Get("img_url"),
		Seats:        v.Get("seats"),
		CoffeePrice:  v.Get("coffee_price"),
		HasToilet:    ParseFlag(v.Get("has_toilet")),
		HasWifi:      ParseFlag(v.Get("has_wifi")),
		HasSockets:   ParseFlag(v.Get("has_sockets")),
		CanTakeCalls: ParseFlag(v.Get("can_take_calls")),
	}
}

// ParseFlag interprets a raw checkbox or query value.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of field errors of one submission, in form order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// For returns the message recorded for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Validator turns submissions into café records.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator reporting fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks s and returns the record it describes (ID unset).  When
// the submission is rejected the record is the zero value and errs lists
// every offending field.
func (v *Validator) Validate(s Submission) (model.Cafe, Errors) {
	s.Name = strings.TrimSpace(s.Name)
	s.Location = strings.TrimSpace(s.Location)
	s.MapURL = strings.TrimSpace(s.MapURL)
	s.ImgURL = strings.TrimSpace(s.ImgURL)
	s.Seats = strings.TrimSpace(s.Seats)
	s.CoffeePrice = strings.TrimSpace(s.CoffeePrice)

	if err := v.v.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return model.Cafe{}, Errors{{Field: "", Message: err.Error()}}
		}
		out := make(Errors, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return model.Cafe{}, out
	}

	return model.Cafe{
		Name:         s.Name,
		MapURL:       s.MapURL,
		ImgURL:       s.ImgURL,
		Location:     s.Location,
		Seats:        s.Seats,
		CoffeePrice:  s.CoffeePrice,
		HasToilet:    s.HasToilet,
		HasWifi:      s.HasWifi,
		HasSockets:   s.HasSockets,
		CanTakeCalls: s.CanTakeCalls,
	}, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "http_url":
		return "Invalid URL."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	}
	return "Invalid value."
}
