package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(newError(KindIneligible, "nope")); got != KindIneligible {
		t.Errorf("expected INELIGIBLE, got %s", got)
	}

	wrapped := fmt.Errorf("outer: %w", newError(KindNotFound, "missing"))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("expected NOT_FOUND through the chain, got %s", got)
	}

	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("plain errors default to INTERNAL, got %s", got)
	}
}

func TestTranslateDBError(t *testing.T) {
	dup := &pgconn.PgError{Code: pgUniqueViolation}
	err := translateDBError(fmt.Errorf("insert: %w", dup), "already applied")
	if KindOf(err) != KindConflict {
		t.Fatalf("unique violation must read as CONFLICT, got %s", KindOf(err))
	}

	other := translateDBError(errors.New("connection reset"), "already applied")
	if KindOf(other) != KindInternal {
		t.Fatalf("non-unique failures stay INTERNAL, got %s", KindOf(other))
	}
}
