package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	if got := ErrConnectFailed.Error(); got != "[PL-CONN-5020] connection failed" {
		t.Errorf("Error() = %q", got)
	}
	got := ErrMissingArgument.WithDetails("host is required").Error()
	if got != "[PL-ARG-1002] missing required argument: host is required" {
		t.Errorf("Error() with details = %q", got)
	}
}

func TestDomainError_CopiesKeepIdentity(t *testing.T) {
	refused := errors.New("connect: connection refused")
	err := ErrConnectFailed.WithDetails("10.0.0.5:9100").WithCause(refused)

	if ErrConnectFailed.Details != "" || ErrConnectFailed.Cause != nil {
		t.Fatal("catalog error was mutated")
	}
	if !errors.Is(err, ErrConnectFailed) {
		t.Error("copy should match its catalog error")
	}
	if errors.Is(err, ErrConnectTimeout) {
		t.Error("copy matched a different code")
	}
	if !errors.Is(err, refused) {
		t.Error("cause not reachable through Unwrap")
	}
	if err.Details != "10.0.0.5:9100" {
		t.Errorf("details lost: %q", err.Details)
	}

	wrapped := fmt.Errorf("send: %w", ErrSendFailed)
	if !IsDomainError(wrapped, "PL-SEND-5020") || IsDomainError(wrapped, "PL-SEND-4001") {
		t.Error("IsDomainError code matching through wrap")
	}
	if !IsDomainError(wrapped, "") || IsDomainError(refused, "") {
		t.Error("IsDomainError with empty code")
	}
}

func TestGetErrorCode(t *testing.T) {
	cases := map[string]error{
		"PL-CONN-4040": ErrConnectionNotFound,
		"PL-SEND-4001": fmt.Errorf("wrapped: %w", ErrPayloadDecode),
		"":             errors.New("plain"),
	}
	for want, err := range cases {
		if got := GetErrorCode(err); got != want {
			t.Errorf("GetErrorCode(%v) = %q, want %q", err, got, want)
		}
	}
	if GetErrorCode(nil) != "" {
		t.Error("nil error has a code")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[string]int{
		"PL-ARG-1001":  400,
		"PL-SEND-4001": 400,
		"PL-AUTH-4010": 401,
		"PL-CONN-4040": 404,
		"PL-CONN-4290": 429,
		"PL-SYS-5000":  500,
		"PL-SYS-5001":  500,
		"PL-CONN-5020": 502,
		"PL-SYS-5030":  503,
		"PL-CONN-5040": 504,
		"":             500,
		"PL-X-12":      500,
		"XX-CONN-4040": 500,
		"PL-CONN-40a0": 500,
		"PL-CONN-9000": 500,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestCatalogCodesAreUnique(t *testing.T) {
	all := []*DomainError{
		ErrInvalidArgument, ErrMissingArgument,
		ErrConnectionNotFound, ErrCapacityExceeded, ErrConnectFailed, ErrConnectTimeout,
		ErrPayloadDecode, ErrSendFailed,
		ErrUnauthorized,
		ErrRateLimited, ErrInternalServer, ErrDuplicateConnectionID, ErrServiceUnavailable,
	}
	seen := make(map[string]bool)
	for _, e := range all {
		if seen[e.Code] {
			t.Errorf("duplicate code %s", e.Code)
		}
		seen[e.Code] = true
		if e.Message == "" {
			t.Errorf("%s has no message", e.Code)
		}
		if e.Status() < 400 {
			t.Errorf("%s maps to status %d", e.Code, e.Status())
		}
	}
}
