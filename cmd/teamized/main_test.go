package main

import (
	"errors"
	"net/http"
	"testing"

	"github.com/teamized/teamized/internal/api"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, exitSuccess},
		{"api error", &api.RequestError{Status: http.StatusForbidden, StatusText: "Forbidden"}, exitAPI},
		{"wrapped api error", errors.Join(errors.New("teams"), &api.RequestError{Status: 500}), exitAPI},
		{"setup error", errors.New("not signed in"), exitSetup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
