package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       Wrap(ParseError, "cannot read snapshot", "check file encoding", stderrors.New("permission denied")),
			wantParts: []string{"PARSE_ERROR", "cannot read snapshot", "permission denied"},
		},
		{
			name:      "without cause",
			err:       New(DataNotFound, "no data for 2025-10-11", "run the crawler first"),
			wantParts: []string{"DATA_NOT_FOUND", "no data for 2025-10-11"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := Wrap(ParseError, "read failed", "", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestCodePredicates(t *testing.T) {
	notFound := New(DataNotFound, "missing", "")
	wrapped := fmt.Errorf("scan day: %w", notFound)

	if !IsDataNotFound(notFound) {
		t.Error("IsDataNotFound(notFound) = false")
	}
	if !IsDataNotFound(wrapped) {
		t.Error("IsDataNotFound should see through fmt.Errorf wrapping")
	}
	if IsDataNotFound(stderrors.New("plain")) {
		t.Error("IsDataNotFound(plain error) = true")
	}
	if CodeOf(stderrors.New("plain")) != InternalError {
		t.Error("CodeOf(plain error) should default to InternalError")
	}
	if !IsInvalidParameter(New(InvalidParameter, "bad date", "")) {
		t.Error("IsInvalidParameter = false")
	}
}
