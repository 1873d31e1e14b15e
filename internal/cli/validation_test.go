package cli

import (
	"strings"
	"testing"
)

func TestIDFormat_Check(t *testing.T) {
	tests := []struct {
		name    string
		format  idFormat
		id      string
		wantErr string
	}{
		{"valid proposal", proposalIDs, "PROP-001", ""},
		{"long proposal number", proposalIDs, "PROP-1024", ""},
		{"valid user", userIDs, "USR-1a2b3c4d", ""},
		{"empty", proposalIDs, "", ""},
		{"bare number is padded", proposalIDs, "7", "try PROP-007"},
		{"bare user number", userIDs, "12", "try USR-12"},
		{"lower-case prefix", proposalIDs, "prop-007", "lower-case prefix, use PROP-007"},
		{"too few digits", proposalIDs, "PROP-7", "expected something like PROP-007"},
		{"wrong prefix", proposalIDs, "USR-001", "expected something like PROP-007"},
		{"user without prefix", userIDs, "bob", "expected something like USR-1a2b3c4d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.check(tt.id)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
