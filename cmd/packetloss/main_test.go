package main

import (
	"testing"

	"firestore-probe/internal/config"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		deleteAfter bool
		wantCount   int
	}{
		{"unset keeps default", -1, false, 1000},
		{"explicit zero", 0, false, 0},
		{"override", 25, true, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := buildConfig(&config.FileConfig{}, tt.count, tt.deleteAfter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Count != tt.wantCount {
				t.Errorf("expected count %d, got %d", tt.wantCount, cfg.Count)
			}
			if cfg.DeleteAfter != tt.deleteAfter {
				t.Errorf("expected delete_after %v, got %v", tt.deleteAfter, cfg.DeleteAfter)
			}
		})
	}
}
