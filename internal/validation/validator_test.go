// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package validation

import (
	"errors"
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type inner struct {
	Hour int `validate:"hour"`
}

type testStruct struct {
	Name    string   `validate:"required,max=10"`
	Kind    string   `validate:"oneof=a b"`
	Workers int      `validate:"min=1,max=64"`
	Ratio   float64  `validate:"gt=0,lte=1"`
	Words   []string `validate:"min=1,dive,notblank"`
	Low     int      `validate:"min=1"`
	High    int      `validate:"gtfield=Low"`
	Inner   inner
}

func validStruct() testStruct {
	return testStruct{
		Name:    "flow",
		Kind:    "a",
		Workers: 2,
		Ratio:   0.5,
		Words:   []string{"best"},
		Low:     1,
		High:    2,
		Inner:   inner{Hour: 23},
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	s := validStruct()
	if err := ValidateStruct(&s); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*testStruct)
		wantTag   string
		wantInMsg string
	}{
		{"required", func(s *testStruct) { s.Name = "" }, "required", "testStruct.Name is required"},
		{"max string", func(s *testStruct) { s.Name = "abcdefghijk" }, "max", "at most 10 characters"},
		{"oneof", func(s *testStruct) { s.Kind = "c" }, "oneof", "must be one of: a b"},
		{"min int", func(s *testStruct) { s.Workers = 0 }, "min", "testStruct.Workers must be at least 1"},
		{"max int", func(s *testStruct) { s.Workers = 65 }, "max", "at most 64"},
		{"gt", func(s *testStruct) { s.Ratio = 0 }, "gt", "greater than 0"},
		{"lte", func(s *testStruct) { s.Ratio = 1.5 }, "lte", "less than or equal to 1"},
		{"min slice", func(s *testStruct) { s.Words = nil }, "min", "at least 1 items"},
		{"notblank", func(s *testStruct) { s.Words = []string{"ok", "  "} }, "notblank", "testStruct.Words[1] must not be blank"},
		{"gtfield", func(s *testStruct) { s.High = 1 }, "gtfield", "High must be greater than Low"},
		{"hour", func(s *testStruct) { s.Inner.Hour = 24 }, "hour", "testStruct.Inner.Hour must be an hour"},
		{"negative hour", func(s *testStruct) { s.Inner.Hour = -1 }, "hour", "between 0 and 23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStruct()
			tt.mutate(&s)

			err := ValidateStruct(&s)
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateStruct() = %v, want *Error", err)
			}
			fields := verr.Fields()
			if len(fields) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(fields), err)
			}
			if fields[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", fields[0].Tag(), tt.wantTag)
			}
			if !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	s := validStruct()
	s.Name = ""
	s.Workers = 0

	err := ValidateStruct(&s)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("ValidateStruct() = %v, want *Error", err)
	}
	if len(verr.Fields()) != 2 {
		t.Fatalf("got %d field errors, want 2", len(verr.Fields()))
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("Error() = %q, want messages joined with '; '", err.Error())
	}

	f := verr.Fields()[1]
	if f.Namespace() != "testStruct.Workers" || f.Field() != "Workers" || f.Param() != "1" || f.Value() != 0 {
		t.Errorf("field error = %+v", f)
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	err := ValidateStruct("not a struct")
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("ValidateStruct() = %v, want *Error", err)
	}
	if verr.Fields()[0].Tag() != "unknown" {
		t.Errorf("Tag() = %q, want unknown", verr.Fields()[0].Tag())
	}
}

func TestError_Empty(t *testing.T) {
	if got := (&Error{}).Error(); got != "validation failed" {
		t.Errorf("Error() = %q", got)
	}
}
