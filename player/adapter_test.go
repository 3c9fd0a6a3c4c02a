package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	f         *fakeFactory
	slot      int
	id        string
	mount     Mount
	muted     bool
	destroyed bool
}

func (h *fakeHandle) Mute() {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	h.muted = true
}

func (h *fakeHandle) Unmute() {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	h.muted = false
	if n := h.f.audibleLocked(); n > h.f.maxAudible {
		h.f.maxAudible = n
	}
}

func (h *fakeHandle) Destroy() {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	h.destroyed = true
}

type fakeFactory struct {
	mu         sync.Mutex
	handles    []*fakeHandle
	maxAudible int
}

func (f *fakeFactory) Create(id string, m Mount) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := &fakeHandle{f: f, slot: m.Slot, id: id, mount: m, muted: m.Muted}
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *fakeFactory) audibleLocked() int {
	n := 0
	for _, h := range f.handles {
		if !h.destroyed && !h.muted {
			n++
		}
	}
	return n
}

func (f *fakeFactory) live() []*fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*fakeHandle
	for _, h := range f.handles {
		if !h.destroyed {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeFactory) unmuted() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, h := range f.handles {
		if !h.destroyed && !h.muted {
			out = append(out, h.slot)
		}
	}
	return out
}

func (f *fakeFactory) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

var nine = [Slots]string{
	"S0qzrYXn7Sw", "U235YxnIVJY", "LKLZnWfVbhY",
	"qOXZQfMum8M", "oCFhj7znXqQ", "fFu9rMKVUWk",
	"y4sVsAGadqM", "UH-ruQEyg8o", "Yuyxq7YFcAY",
}

func mountAll(a *Adapter, gen uint64) {
	for i := 0; i < Slots; i++ {
		a.MountReady(gen, i)
	}
}

func TestAdapter_CreatesOnMount(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	assert.Zero(t, a.Live())

	assert.True(t, a.MountReady(1, 4))
	assert.False(t, a.MountReady(1, 4), "second mount must not create twice")
	require.Len(t, f.live(), 1)
	h := f.live()[0]
	assert.Equal(t, "oCFhj7znXqQ", h.id)
	assert.Equal(t, MountFor(1, 4), h.mount)
	assert.True(t, h.mount.Autoplay)
	assert.True(t, h.mount.Muted)
	assert.True(t, h.mount.Controls)
	assert.True(t, h.muted)
}

func TestAdapter_EmptySlotsGetNoPlayer(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, [Slots]string{0: "S0qzrYXn7Sw", 2: "LKLZnWfVbhY"})
	mountAll(a, 1)
	assert.Equal(t, 2, a.Live())
	for _, h := range f.live() {
		assert.Contains(t, []int{0, 2}, h.slot)
	}
}

func TestAdapter_StaleMountIgnored(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	a.Sync(2, nine)
	assert.False(t, a.MountReady(1, 0))
	assert.False(t, a.MountReady(3, 0))
	assert.False(t, a.MountReady(2, -1))
	assert.False(t, a.MountReady(2, Slots))
	assert.Zero(t, f.created())
}

func TestAdapter_SyncDestroysPreviousGeneration(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	mountAll(a, 1)
	first := f.live()
	require.Len(t, first, Slots)

	a.Sync(2, [Slots]string{0: "S0qzrYXn7Sw"})
	assert.Zero(t, a.Live())
	for _, h := range first {
		assert.True(t, h.destroyed)
	}

	mountAll(a, 2)
	live := f.live()
	require.Len(t, live, 1)
	assert.Equal(t, uint64(2), live[0].mount.Generation)
	assert.Equal(t, uint64(2), a.Generation())
}

func TestAdapter_ClearLeavesNoPlayers(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	mountAll(a, 1)
	a.Sync(2, [Slots]string{})
	mountAll(a, 2)
	assert.Zero(t, a.Live())
	assert.Empty(t, f.live())
}

func TestAdapter_WaitsForReadiness(t *testing.T) {
	f := &fakeFactory{}
	latch := NewLatch()
	a := New(f, latch)
	defer a.Close()

	a.Sync(1, nine)
	assert.False(t, a.MountReady(1, 0))
	assert.False(t, a.MountReady(1, 3))
	assert.Zero(t, f.created())
	assert.False(t, a.Ready())

	latch.Fire()
	require.Eventually(t, func() bool { return a.Live() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, a.Ready())

	assert.True(t, a.MountReady(1, 8))
	assert.Equal(t, 3, a.Live())
}

func TestAdapter_MountsBeforeReadinessOfOldGenerationAreDropped(t *testing.T) {
	f := &fakeFactory{}
	latch := NewLatch()
	a := New(f, latch)
	defer a.Close()

	a.Sync(1, nine)
	a.MountReady(1, 0)
	a.Sync(2, nine)

	latch.Fire()
	require.Eventually(t, a.Ready, time.Second, 5*time.Millisecond)
	assert.Zero(t, a.Live())
}

func TestAdapter_PinMakesExactlyOneAudible(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	mountAll(a, 1)
	assert.Empty(t, f.unmuted())

	a.ApplyPin(2)
	assert.Equal(t, []int{2}, f.unmuted())
	assert.Equal(t, 2, a.Audible())

	a.ApplyPin(5)
	assert.Equal(t, []int{5}, f.unmuted())
	assert.Equal(t, 5, a.Audible())

	a.ApplyPin(NoPin)
	assert.Empty(t, f.unmuted())
	assert.Equal(t, NoPin, a.Audible())
	assert.Equal(t, 1, f.maxAudible)
}

func TestAdapter_PinEmptySlotMutesAll(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, [Slots]string{0: "S0qzrYXn7Sw", 1: "U235YxnIVJY"})
	mountAll(a, 1)
	a.ApplyPin(0)
	a.ApplyPin(6)
	assert.Empty(t, f.unmuted())
	assert.Equal(t, NoPin, a.Audible())
}

func TestAdapter_PinnedSlotCreatedLaterIsAudible(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	a.MountReady(1, 0)
	a.ApplyPin(3)
	assert.Equal(t, NoPin, a.Audible())

	a.MountReady(1, 3)
	assert.Equal(t, []int{3}, f.unmuted())
	assert.Equal(t, 3, a.Audible())
}

func TestAdapter_SyncResetsPin(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil)
	defer a.Close()

	a.Sync(1, nine)
	mountAll(a, 1)
	a.ApplyPin(1)
	a.Sync(2, nine)
	mountAll(a, 2)
	assert.Empty(t, f.unmuted())
	assert.Equal(t, NoPin, a.Audible())
}

func TestAdapter_FactoryErrorLeavesSlotEmpty(t *testing.T) {
	f := &fakeFactory{}
	var failed []Mount
	flaky := FactoryFunc(func(id string, m Mount) (Handle, error) {
		if id == "U235YxnIVJY" {
			failed = append(failed, m)
			return nil, errors.New("boom")
		}
		return f.Create(id, m)
	})
	a := New(flaky, nil)
	defer a.Close()

	a.Sync(1, nine)
	assert.False(t, a.MountReady(1, 1))
	mountAll(a, 1)
	assert.Equal(t, Slots-1, a.Live())
	require.Len(t, failed, 2)
	assert.Equal(t, MountFor(1, 1), failed[0])
}

func TestAdapter_FallbackTimerCreatesUnmounted(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil, WithMountFallback(20*time.Millisecond))
	defer a.Close()

	a.Sync(1, [Slots]string{0: "S0qzrYXn7Sw", 4: "oCFhj7znXqQ"})
	a.MountReady(1, 0)
	require.Eventually(t, func() bool { return a.Live() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, f.created())
}

func TestAdapter_FallbackTimerSupersededBySync(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil, WithMountFallback(30*time.Millisecond))
	defer a.Close()

	a.Sync(1, nine)
	a.Sync(2, [Slots]string{0: "S0qzrYXn7Sw"})
	require.Eventually(t, func() bool { return a.Live() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	live := f.live()
	require.Len(t, live, 1)
	assert.Equal(t, uint64(2), live[0].mount.Generation)
	assert.Equal(t, 1, f.created())
}

func TestAdapter_CloseDestroysAndCancels(t *testing.T) {
	f := &fakeFactory{}
	a := New(f, nil, WithMountFallback(30*time.Millisecond))

	a.Sync(1, nine)
	a.MountReady(1, 0)
	a.MountReady(1, 1)
	a.Close()
	a.Close()

	assert.Empty(t, f.live())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 2, f.created())

	a.Sync(2, nine)
	assert.False(t, a.MountReady(2, 0))
	a.ApplyPin(0)
	assert.Zero(t, a.Live())
}

func TestAdapter_CloseBeforeReadiness(t *testing.T) {
	f := &fakeFactory{}
	latch := NewLatch()
	a := New(f, latch)
	a.Sync(1, nine)
	a.MountReady(1, 0)
	a.Close()
	latch.Fire()
	time.Sleep(20 * time.Millisecond)
	assert.False(t, a.Ready())
	assert.Zero(t, f.created())
}

func TestLatch(t *testing.T) {
	l := NewLatch()
	assert.False(t, l.Fired())
	l.Fire()
	l.Fire()
	assert.True(t, l.Fired())
	select {
	case <-l.Ready():
	default:
		t.Fatal("latch channel not closed")
	}
}

func TestElementID(t *testing.T) {
	assert.Equal(t, "player-3-7", ElementID(3, 7))
	assert.Equal(t, "player-3-7", MountFor(3, 7).Element)
}
