package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "brotos/internal/errors"
	"brotos/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct tags and folds failures into one ValidationError keyed by JSON field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apperrors.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, apperrors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must not be empty"
	default:
		return "is invalid"
	}
}

func trimFields(f *model.ConsultantFields) {
	f.Name = strings.TrimSpace(f.Name)
	f.WhatsApp = strings.TrimSpace(f.WhatsApp)
	f.Email = strings.TrimSpace(f.Email)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PhotoURL = strings.TrimSpace(f.PhotoURL)
	f.TeamName = strings.TrimSpace(f.TeamName)
	f.ParentID = strings.TrimSpace(f.ParentID)
}

func trimPatch(p *model.ConsultantPatch) {
	for _, s := range []*string{p.Name, p.WhatsApp, p.Email, p.City, p.State, p.PhotoURL, p.TeamName, p.ParentID} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// normalizeImported trims the profile of an imported record in place and checks it against the
// same rules as a create.
func normalizeImported(c *model.Consultant) error {
	f := model.ConsultantFields{
		Name:     c.Name,
		WhatsApp: c.WhatsApp,
		Email:    c.Email,
		City:     c.City,
		State:    c.State,
		Role:     c.Role,
		PhotoURL: c.PhotoURL,
		TeamName: c.TeamName,
	}
	trimFields(&f)
	if err := validateStruct(f); err != nil {
		return err
	}
	c.Name, c.WhatsApp, c.Email, c.City, c.State = f.Name, f.WhatsApp, f.Email, f.City, f.State
	c.PhotoURL, c.TeamName = f.PhotoURL, f.TeamName
	return nil
}
