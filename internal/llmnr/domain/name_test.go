package domain

import (
	"strings"
	"testing"
)

func TestNewEncodedName(t *testing.T) {
	tests := []struct {
		name        string
		hostname    string
		expectError bool
	}{
		{
			name:     "simple hostname",
			hostname: "workstation",
		},
		{
			name:     "single character",
			hostname: "a",
		},
		{
			name:     "maximum label size",
			hostname: strings.Repeat("x", 63),
		},
		{
			name:        "empty hostname should fail",
			hostname:    "",
			expectError: true,
		},
		{
			name:        "label too long should fail",
			hostname:    strings.Repeat("x", 64),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewEncodedName(tt.hostname)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q, got none", tt.hostname)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncodedName(%q) returned error: %v", tt.hostname, err)
			}

			wire := n.Wire()
			if len(wire) != len(tt.hostname)+2 {
				t.Errorf("wire length = %d, want %d", len(wire), len(tt.hostname)+2)
			}
			if int(wire[0]) != len(tt.hostname) {
				t.Errorf("length octet = %d, want %d", wire[0], len(tt.hostname))
			}
			if wire[len(wire)-1] != 0 {
				t.Errorf("missing zero terminator")
			}
		})
	}
}

func TestEncodedName_RoundTrip(t *testing.T) {
	// Decoding the encoded form must yield back the original string with
	// case preserved.
	for _, hostname := range []string{"workstation", "WorkStation", "HOST-7"} {
		n, err := NewEncodedName(hostname)
		if err != nil {
			t.Fatalf("NewEncodedName(%q): %v", hostname, err)
		}
		if got := n.String(); got != hostname {
			t.Errorf("round trip of %q yielded %q", hostname, got)
		}
	}
}

func TestEncodedName_ZeroValue(t *testing.T) {
	var n EncodedName
	if n.String() != "" {
		t.Errorf("zero value String() = %q, want empty", n.String())
	}
	if n.Matches([]byte{4, 'h', 'o', 's', 't', 0}) {
		t.Error("zero value must not match anything")
	}
}

func TestEncodedName_Matches(t *testing.T) {
	n, err := NewEncodedName("workstation")
	if err != nil {
		t.Fatal(err)
	}

	encode := func(s string) []byte {
		b := make([]byte, len(s)+2)
		b[0] = byte(len(s))
		copy(b[1:], s)
		return b
	}

	tests := []struct {
		name  string
		query []byte
		want  bool
	}{
		{
			name:  "exact match",
			query: encode("workstation"),
			want:  true,
		},
		{
			name:  "uppercase match",
			query: encode("WORKSTATION"),
			want:  true,
		},
		{
			name:  "mixed case match",
			query: encode("WorkStation"),
			want:  true,
		},
		{
			name:  "different name",
			query: encode("workstatios"),
			want:  false,
		},
		{
			name:  "shorter name",
			query: encode("work"),
			want:  false,
		},
		{
			name:  "longer name",
			query: encode("workstation2"),
			want:  false,
		},
		{
			name: "missing zero terminator",
			query: func() []byte {
				b := encode("workstation")
				b[len(b)-1] = 'x'
				return b
			}(),
			want: false,
		},
		{
			name:  "truncated buffer",
			query: encode("workstation")[:5],
			want:  false,
		},
		{
			name:  "empty buffer",
			query: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Matches(tt.query); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
