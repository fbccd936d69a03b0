// Package validation provides input validation for settings and HTTP requests.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their config key:
//
//	type Settings struct {
//	    Backend string `mapstructure:"backend" validate:"oneof=remote local"`
//	}
//	err := validation.ValidateStruct(s)
//
// Programmatic validation collects errors fluently:
//
//	v := validation.New().Required("file", name).Min("line", line, 0)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
