package validator

import (
	"github.com/GetStream/engagement-backend/engagement"
	"github.com/go-playground/validator/v10"
)

// Validator validates request payloads. Besides the stock tags it knows
// visibility and actorkind.
type Validator struct {
	cli *validator.Validate
}

// ValidationError describes one failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (v *Validator) formatError(err error) []ValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Error(),
		})
	}
	return out
}

// ValidateStruct validates s against its validate tags.
func (v *Validator) ValidateStruct(s any) []ValidationError {
	if err := v.cli.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Validate checks a single value against tag.
func (v *Validator) Validate(value any, tag string) []ValidationError {
	if err := v.cli.Var(value, tag); err != nil {
		return v.formatError(err)
	}
	return nil
}

// New returns a Validator with the engagement tags registered.
func New() *Validator {
	cli := validator.New(validator.WithRequiredStructEnabled())
	cli.RegisterTagNameFunc(jsonName)

	_ = cli.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		return engagement.Visibility(fl.Field().String()).Valid()
	})
	_ = cli.RegisterValidation("actorkind", func(fl validator.FieldLevel) bool {
		return engagement.ActorKind(fl.Field().String()).Valid()
	})
	return &Validator{cli: cli}
}
