// Package validation validates configuration and pipeline definitions.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their YAML names:
//
//	type Stage struct {
//	    Command string `yaml:"command" validate:"required"`
//	}
//	err := validation.Validate(stage)
//
// Programmatic validation collects errors for checks tags cannot express:
//
//	err := validation.New().
//	    NotEmpty("stages", len(req.Stages)).
//	    Err()
//
// Both report failures as an *errors.AppError with code INVALID_INPUT and a
// "fields" detail.
package validation
