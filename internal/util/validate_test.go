package util

import (
	"strings"
	"testing"
)

func TestValidateFileName_Valid(t *testing.T) {
	valid := []string{
		"Ch_1_6.csv",
		"Ch-5-18.csv",
		"RPop.csv",
		"data/Pop_3_79.csv",
		"/srv/demodash/RPop.csv",
		"Дети 1-6 лет.csv",
		"..hidden.csv",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateFileName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateFileName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "must not be blank"},
		{"   ", "must not be blank"},
		{"RPop\x00.csv", "control characters"},
		{"Ch_1_6\n.csv", "control characters"},
		{".", "refers to a directory"},
		{"..", "refers to a directory"},
		{"data/..", "refers to a directory"},
		{"data/", "path separator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileName(tt.name)
			if err == nil {
				t.Fatalf("expected %q to be invalid", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}
