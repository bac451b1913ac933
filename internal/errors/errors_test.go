package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := NewUnsupportedFormat("/tmp/report.xlsx", ".xlsx")
	if !strings.Contains(err.Error(), "UNSUPPORTED_FORMAT") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "/tmp/report.xlsx") {
		t.Errorf("Error() = %q, want path", err.Error())
	}
}

func TestIs(t *testing.T) {
	if !Is(NewTimeout("a.png"), ErrTimeout) {
		t.Error("Is(NewTimeout, ErrTimeout) = false, want true")
	}
	if Is(NewTimeout("a.png"), ErrExtraction) {
		t.Error("Is(NewTimeout, ErrExtraction) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrTimeout) {
		t.Error("Is(plain error, ErrTimeout) = true, want false")
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStoreIO(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewEncoding("x.txt", nil)); got != ErrEncoding {
		t.Errorf("CodeOf = %q, want %q", got, ErrEncoding)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrInternal {
		t.Errorf("CodeOf(plain) = %q, want %q", got, ErrInternal)
	}
}
