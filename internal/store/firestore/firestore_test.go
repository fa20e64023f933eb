package firestore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"grpc not found", status.Error(codes.NotFound, "no such document"), true},
		{"wrapped not found", fmt.Errorf("get: %w", status.Error(codes.NotFound, "gone")), true},
		{"unavailable", status.Error(codes.Unavailable, "backend down"), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isNotFound(tt.err))
		})
	}
}

func TestConnectMissingCredentials(t *testing.T) {
	c := NewConnector(Config{
		CredentialsFile: filepath.Join(t.TempDir(), "serviceAccountKey.json"),
	})

	s, err := c.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "credentials file")
}

func TestConnectNoCredentialsConfigured(t *testing.T) {
	c := NewConnector(Config{})

	_, err := c.Connect(context.Background())
	assert.Error(t, err)
}

func TestConnectIsIdempotent(t *testing.T) {
	c := NewConnector(Config{
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	ctx := context.Background()

	_, first := c.Connect(ctx)
	_, second := c.Connect(ctx)

	require.Error(t, first)
	assert.Same(t, first, second)
}

func TestConnectEmulatorRequiresProject(t *testing.T) {
	c := NewConnector(Config{EmulatorHost: "localhost:8081"})

	_, err := c.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project id")
}
