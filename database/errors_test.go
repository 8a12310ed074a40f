package database

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantConstraint bool
	}{
		{
			name:           "duplicate key",
			err:            gorm.ErrDuplicatedKey,
			wantConstraint: true,
		},
		{
			name:           "foreign key violated",
			err:            gorm.ErrForeignKeyViolated,
			wantConstraint: true,
		},
		{
			name:           "check constraint violated",
			err:            gorm.ErrCheckConstraintViolated,
			wantConstraint: true,
		},
		{
			name:           "wrapped duplicate key",
			err:            fmt.Errorf("create: %w", gorm.ErrDuplicatedKey),
			wantConstraint: true,
		},
		{
			name:           "other error stays a DBError",
			err:            errors.New("connection reset"),
			wantConstraint: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateWriteError("AppendObservation", tt.err)

			var cerr *ConstraintError
			if isConstraint := errors.As(got, &cerr); isConstraint != tt.wantConstraint {
				t.Fatalf("constraint classification = %v, want %v (err: %v)", isConstraint, tt.wantConstraint, got)
			}
			if !tt.wantConstraint {
				var derr *DBError
				if !errors.As(got, &derr) {
					t.Fatalf("expected *DBError, got %T", got)
				}
			}
			// The original error stays reachable through the wrapper.
			if !errors.Is(got, tt.err) {
				t.Errorf("wrapped error lost the cause: %v", got)
			}
		})
	}

	if TranslateWriteError("AppendObservation", nil) != nil {
		t.Error("nil error must pass through as nil")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	dup := TranslateWriteError("AppendObservation", gorm.ErrDuplicatedKey)
	if !IsDuplicateKey(dup) {
		t.Error("translated duplicate-key error not recognized")
	}
	if IsDuplicateKey(errors.New("other")) {
		t.Error("unrelated error misclassified as duplicate key")
	}
}

func TestErrorMessages(t *testing.T) {
	nf := NewNotFoundErrorWithID("metals", "GOLD")
	if nf.Error() != "metals not found: GOLD" {
		t.Errorf("unexpected message: %q", nf.Error())
	}

	ve := NewValidationErrorWithValue("close", "must be strictly positive", -1.0)
	if ve.Error() != "validation failed for field 'close': must be strictly positive (value: -1)" {
		t.Errorf("unexpected message: %q", ve.Error())
	}
}
