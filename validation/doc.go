// Package validation provides configuration and definition validation.
//
// Struct tag validation (go-playground/validator) covers configuration
// structs; field names in messages follow their mapstructure keys.
//
//	type Config struct {
//	    Addr string `mapstructure:"addr" validate:"required,hostname_port"`
//	}
//	err := validation.Validate(cfg)
//
// The collecting Validator covers checks between fields:
//
//	v := validation.New()
//	v.Required("nodes[0].name", n.Name).Unique("nodes[0].name", n.Name, seen)
//	err := v.Validate()
package validation
