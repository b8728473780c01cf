package uid

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    UID
		ok      bool
		wantErr error
	}{
		{input: "uid=1", want: 1, ok: true},
		{input: "UID=42", want: 42, ok: true},
		{input: "Uid=007", want: 7, ok: true},
		{input: "uid=0", ok: true, wantErr: ErrSyntax},
		{input: "uid=-1", ok: true, wantErr: ErrSyntax},
		{input: "uid=abc", ok: true, wantErr: ErrSyntax},
		{input: "uid=", ok: true, wantErr: ErrSyntax},
		{input: "uid=5/foo", ok: true, wantErr: ErrSyntax},
		{input: "uid=1=2"},
		{input: "home"},
		{input: ""},
		{input: "uid"},
		{input: "xuid=3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, expected %v", tt.input, err, tt.wantErr)
			}
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %d, expected %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasPrefix(t *testing.T) {
	for _, name := range []string{"uid=", "uid=3", "UID=x", "uId=whatever"} {
		if !HasPrefix(name) {
			t.Errorf("HasPrefix(%q) = false", name)
		}
	}
	for _, name := range []string{"", "uid", "my uid=3", "ui=3"} {
		if HasPrefix(name) {
			t.Errorf("HasPrefix(%q) = true", name)
		}
	}
}
