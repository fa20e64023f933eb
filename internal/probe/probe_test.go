package probe

import (
	"context"
	"sync"
	"testing"
	"time"

	"firestore-probe/internal/chaos"
	"firestore-probe/internal/events"
	"firestore-probe/internal/store"
	"firestore-probe/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = "firebase_packetloss_test"

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
	ok  []bool
}

func (r *recordingObserver) ObserveOperation(_, op string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	r.ok = append(r.ok, ok)
}

func TestWriteAssignsID(t *testing.T) {
	s := memory.New()
	exec := New(s, "packetloss")

	out := exec.Write(context.Background(), testCollection, store.Record{"sequence": 1}, "")

	require.True(t, out.OK)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 1, s.Size(testCollection))
}

func TestWriteExplicitID(t *testing.T) {
	s := memory.New()
	exec := New(s, "availability")

	out := exec.Write(context.Background(), testCollection, store.Record{"status": "alive"}, "heartbeat_42")

	require.True(t, out.OK)
	assert.Equal(t, "heartbeat_42", out.ID)
}

func TestWriteAttachesServerTimestamp(t *testing.T) {
	s := memory.New()
	exec := New(s, "packetloss")
	ctx := context.Background()

	out := exec.Write(ctx, testCollection, store.Record{"sequence": 1}, "")
	require.True(t, out.OK)

	doc, err := s.Get(ctx, testCollection, out.ID)
	require.NoError(t, err)
	assert.Contains(t, doc, store.FieldServerTimestamp)
}

func TestWriteFailure(t *testing.T) {
	inj := chaos.New(memory.New(), chaos.Config{FailureRate: 1, Seed: 7})
	obs := &recordingObserver{}
	exec := New(inj, "packetloss", WithObserver(obs))

	out := exec.Write(context.Background(), testCollection, store.Record{}, "")

	assert.False(t, out.OK)
	assert.Empty(t, out.ID)
	assert.Equal(t, []string{OpWrite}, obs.ops)
	assert.Equal(t, []bool{false}, obs.ok)
}

func TestReadVerify(t *testing.T) {
	s := memory.New()
	exec := New(s, "packetloss")
	ctx := context.Background()

	out := exec.Write(ctx, testCollection, store.Record{}, "")
	require.True(t, out.OK)

	assert.True(t, exec.ReadVerify(ctx, testCollection, out.ID))
	assert.False(t, exec.ReadVerify(ctx, testCollection, "never-written"))
}

func TestReadVerifyAfterDeleteIsDeterministic(t *testing.T) {
	s := memory.New()
	exec := New(s, "packetloss")
	ctx := context.Background()

	out := exec.Write(ctx, testCollection, store.Record{}, "")
	require.True(t, out.OK)
	assert.True(t, exec.Delete(ctx, testCollection, out.ID))

	for range 3 {
		assert.False(t, exec.ReadVerify(ctx, testCollection, out.ID))
	}
}

func TestReadVerifyError(t *testing.T) {
	inner := memory.New()
	inj := chaos.New(inner, chaos.Config{})
	obs := &recordingObserver{}
	exec := New(inj, "packetloss", WithObserver(obs))
	ctx := context.Background()

	id, err := inner.Write(ctx, testCollection, "", store.Record{})
	require.NoError(t, err)

	inj.Kill()
	assert.False(t, exec.ReadVerify(ctx, testCollection, id))
	assert.Equal(t, []bool{false}, obs.ok)
}

func TestDeleteSwallowsErrors(t *testing.T) {
	inj := chaos.New(memory.New(), chaos.Config{})
	exec := New(inj, "throughput")

	inj.Kill()
	assert.False(t, exec.Delete(context.Background(), testCollection, "anything"))
}

func TestListReturnsPartialOnError(t *testing.T) {
	inj := chaos.New(memory.New(), chaos.Config{})
	exec := New(inj, "throughput")

	inj.Kill()
	assert.Empty(t, exec.List(context.Background(), testCollection, 10))
}

func TestTimeout(t *testing.T) {
	s := memory.New()
	s.SetDelay(time.Second)
	exec := New(s, "availability", WithTimeout(10*time.Millisecond))

	start := time.Now()
	out := exec.Write(context.Background(), testCollection, store.Record{}, "")

	assert.False(t, out.OK)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestOperationEventsPublished(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe()
	exec := New(memory.New(), "packetloss", WithEventBus(bus))

	exec.Write(context.Background(), testCollection, store.Record{}, "doc-1")

	select {
	case ev := <-ch:
		assert.Equal(t, events.EventOperation, ev.Type)
		assert.Equal(t, OpWrite, ev.Data.Op)
		assert.Equal(t, "doc-1", ev.Data.DocumentID)
		assert.True(t, ev.Data.OK)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for operation event")
	}
}
