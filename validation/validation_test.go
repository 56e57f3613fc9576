package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/ocvflow/errors"
)

type innerConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
	Policy   string        `mapstructure:"policy" validate:"omitempty,oneof=swallow log record"`
}

type outerConfig struct {
	Name  string      `mapstructure:"name" validate:"required"`
	Inner innerConfig `mapstructure:"inner"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		cfg       outerConfig
		wantErr   bool
		wantField string
	}{
		{"valid", outerConfig{Name: "x", Inner: innerConfig{Interval: time.Second}}, false, ""},
		{"missing name", outerConfig{Inner: innerConfig{Interval: time.Second}}, true, "name"},
		{"zero interval", outerConfig{Name: "x"}, true, "inner.interval"},
		{"bad policy", outerConfig{Name: "x", Inner: innerConfig{Interval: 1, Policy: "panic"}}, true, "inner.policy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil {
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if !strings.Contains(appErr.Message, tc.wantField+":") {
				t.Errorf("expected message to mention %q, got %q", tc.wantField, appErr.Message)
			}
			fields, ok := appErr.Details["fields"].([]FieldError)
			if !ok || len(fields) == 0 || fields[0].Field != tc.wantField {
				t.Errorf("unexpected field details %v", appErr.Details["fields"])
			}
		})
	}
}

func TestValidatorCollects(t *testing.T) {
	seen := map[string]bool{}
	v := New().
		Required("nodes[0].name", "blur").
		Unique("nodes[0].name", "blur", seen).
		Unique("nodes[1].name", "blur", seen).
		Required("nodes[1].component", " ").
		OneOf("toolbar", "Files", []string{"Files", "Sources"}).
		Custom(false, "sources", "unknown source")

	if got := len(v.Errors()); got != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", got, v.Errors())
	}
	err := v.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "duplicate value") {
		t.Errorf("expected duplicate message, got %v", err)
	}
}

func TestValidatorNoErrors(t *testing.T) {
	if err := New().Required("a", "b").Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
