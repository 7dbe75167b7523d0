package errors

import (
	"math"
	"testing"
)

func TestValidateTolerance(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"default", 1e-3, false},
		{"tiny", 1e-9, false},
		{"max", MaxTolerance, false},

		{"zero", 0, true},
		{"negative", -1e-3, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
		{"too large", MaxTolerance * 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTolerance(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTolerance(%g) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTolerance) {
				t.Errorf("ValidateTolerance(%g) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateWellName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "well_0", false},
		{"with dash", "B-12", false},
		{"with dot", "P3.a", false},
		{"digits", "17", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 80)), true},
		{"spaces", "well 0", true},
		{"starts with dash", "-w", true},
		{"control char", "w\x01", true},
		{"slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWellName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWellName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "site.solutions.json", false},
		{"valid nested", "campaigns/ufz/site.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidMatrix,
		ErrCodeInvalidTolerance,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidWellName,
		ErrCodeFileNotFound,
		ErrCodeSearchLimit,
		ErrCodeCacheUnavailable,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
