package live

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"advancetrack/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestState() *model.State {
	return model.New(model.World{}, &model.Catalog{
		Advancements: map[string]*model.Advancement{},
		Categories:   map[string]model.Category{},
	}, nil, nil)
}

func TestWatcherDetectsPlayerUpdate(t *testing.T) {
	world := t.TempDir()
	advDir := filepath.Join(world, "advancements")
	statsDir := filepath.Join(world, "stats")
	require.NoError(t, os.MkdirAll(advDir, 0755))
	require.NoError(t, os.MkdirAll(statsDir, 0755))

	uuid := "11111111-1111-1111-1111-111111111111"
	state := newTestState()

	var mutated int
	broadcaster := NewBroadcaster(4)
	ch, cancel := broadcaster.Subscribe()
	defer cancel()

	w, err := New(world, state, broadcaster, 30, 10, func() { mutated++ })
	require.NoError(t, err)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	statsContent := `{"stats": {"minecraft:custom": {"minecraft:jump": 5}}}`
	require.NoError(t, os.WriteFile(filepath.Join(statsDir, uuid+".json"), []byte(statsContent), 0644))
	advContent := `{"story/root": {"criteria": {"crafting_table": "2024-01-01"}, "done": true}}`
	require.NoError(t, os.WriteFile(filepath.Join(advDir, uuid+".json"), []byte(advContent), 0644))

	select {
	case ev := <-ch:
		require.Equal(t, uuid, ev.UUID)
		require.Equal(t, KindProgressUpdate, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update event")
	}

	state.RLock()
	defer state.RUnlock()
	_, ok := state.Players[uuid]
	require.True(t, ok, "expected player to be upserted into state")
	require.Greater(t, mutated, 0, "expected onMutate callback to run")
}

func TestWatcherIgnoresNonUUIDFileStems(t *testing.T) {
	world := t.TempDir()
	advDir := filepath.Join(world, "advancements")
	require.NoError(t, os.MkdirAll(advDir, 0755))

	state := newTestState()
	broadcaster := NewBroadcaster(4)
	ch, cancel := broadcaster.Subscribe()
	defer cancel()

	w, err := New(world, state, broadcaster, 30, 10, nil)
	require.NoError(t, err)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(advDir, "not-a-uuid.json"), []byte(`{}`), 0644))

	select {
	case ev := <-ch:
		t.Fatalf("expected no broadcast for a non-UUID file stem, got %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestProcessingSetRejectsUUIDAlreadyInFlight(t *testing.T) {
	state := newTestState()
	uuid := "22222222-2222-2222-2222-222222222222"

	state.Lock()
	require.True(t, state.TryBeginProcessing(uuid))
	state.Unlock()

	state.Lock()
	accepted := state.TryBeginProcessing(uuid)
	state.Unlock()
	require.False(t, accepted, "a second begin while the first is in flight must be rejected")
}

func TestBroadcasterDropsOnFullSubscriber(t *testing.T) {
	b := NewBroadcaster(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(UpdateEvent{UUID: "a"})
	b.Publish(UpdateEvent{UUID: "b"}) // should drop silently, not block

	ev := <-ch
	require.Equal(t, "a", ev.UUID)
}
