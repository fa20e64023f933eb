package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordClone(t *testing.T) {
	rec := Record{"status": "alive"}
	cloned := rec.Clone()
	cloned[FieldServerTimestamp] = "sentinel"

	assert.NotContains(t, rec, FieldServerTimestamp)
	assert.Equal(t, "alive", cloned["status"])
}

func TestRecordCloneNil(t *testing.T) {
	var rec Record
	cloned := rec.Clone()

	assert.NotNil(t, cloned)
	assert.Empty(t, cloned)
}

func TestUnixSeconds(t *testing.T) {
	ts := time.Unix(1700000000, int64(500*time.Millisecond))
	assert.InDelta(t, 1700000000.5, UnixSeconds(ts), 1e-6)
}
