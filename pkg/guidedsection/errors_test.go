package guidedsection_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection"
)

func TestStoreErrorUnwrap(t *testing.T) {
	err := &guidedsection.StoreError{
		Store: "lowmem",
		Op:    "probe",
		Err:   guidedsection.ErrWriteProtected,
	}

	if !errors.Is(err, guidedsection.ErrWriteProtected) {
		t.Error("expected errors.Is to reach the wrapped sentinel")
	}

	var storeErr *guidedsection.StoreError
	wrapped := fmt.Errorf("resolver: %w", err)
	if !errors.As(wrapped, &storeErr) {
		t.Fatal("expected errors.As to find StoreError")
	}
	if storeErr.Store != "lowmem" || storeErr.Op != "probe" {
		t.Errorf("unexpected fields: %+v", storeErr)
	}
}

func TestStoreErrorMessage(t *testing.T) {
	err := &guidedsection.StoreError{Store: "static", Op: "write", Err: errors.New("boom")}
	want := "store static: write: boom"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
