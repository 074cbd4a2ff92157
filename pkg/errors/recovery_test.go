package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}

	if panicErr.Operation != "TestOperation" {
		t.Errorf("Expected operation 'TestOperation', got '%s'", panicErr.Operation)
	}
	if panicErr.PanicValue != "test panic message" {
		t.Errorf("Expected panic value 'test panic message', got '%v'", panicErr.PanicValue)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in TestOperation: test panic message"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic with existing error, got nil")
	}

	if !strings.Contains(err.Error(), "panic in TestOperation") {
		t.Errorf("Error message should contain panic info: %s", err.Error())
	}
	if !strings.Contains(fmt.Sprintf("%+v", err), "original error") {
		t.Errorf("Detailed error should keep the original error: %+v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	testCases := []struct {
		name          string
		fn            func() error
		wantErr       bool
		wantPanic     bool
		shouldContain string
	}{
		{
			name:    "success",
			fn:      func() error { return nil },
			wantErr: false,
		},
		{
			name:          "returned error",
			fn:            func() error { return ErrFactorizationFailed },
			wantErr:       true,
			shouldContain: "factorization failed",
		},
		{
			name:          "string panic",
			fn:            func() error { panic("mat: dimension mismatch") },
			wantErr:       true,
			wantPanic:     true,
			shouldContain: "panic in svd: mat: dimension mismatch",
		},
		{
			name:          "error panic",
			fn:            func() error { panic(errors.New("index out of range")) },
			wantErr:       true,
			wantPanic:     true,
			shouldContain: "index out of range",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := SafeExecute("svd", tc.fn)
			if (err != nil) != tc.wantErr {
				t.Fatalf("SafeExecute() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr {
				return
			}

			var panicErr *PanicError
			if got := errors.As(err, &panicErr); got != tc.wantPanic {
				t.Errorf("errors.As(PanicError) = %v, want %v", got, tc.wantPanic)
			}
			if !strings.Contains(err.Error(), tc.shouldContain) {
				t.Errorf("error %q should contain %q", err.Error(), tc.shouldContain)
			}
		})
	}
}

func TestPanicError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	panicErr := NewPanicError("op", inner)
	if !errors.Is(panicErr, inner) {
		t.Error("PanicError should unwrap to the panicked error")
	}
	if NewPanicError("op", "text").Unwrap() != nil {
		t.Error("non-error panic values should not unwrap")
	}
	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include the stack trace")
	}
}
