package connectivity

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSignal is a scripted reachability source.
type fakeSignal struct {
	mu           sync.Mutex
	online       bool
	readable     bool
	onUp, onDown func()
	unsubscribes int
}

func (f *fakeSignal) Online() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online, f.readable
}

func (f *fakeSignal) Subscribe(onUp, onDown func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onUp = onUp
	f.onDown = onDown
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribes++
	}
}

func (f *fakeSignal) up() {
	f.mu.Lock()
	fn := f.onUp
	f.online = true
	f.mu.Unlock()
	fn()
}

func (f *fakeSignal) down() {
	f.mu.Lock()
	fn := f.onDown
	f.online = false
	f.mu.Unlock()
	fn()
}

func newTestTracker(t *testing.T, sig *fakeSignal) (*Tracker, *clockwork.FakeClock) {
	t.Helper()

	fake := clockwork.NewFakeClock()
	tr := newTracker(sig, fake)
	t.Cleanup(tr.Close)
	return tr, fake
}

func TestTracker_InitialStateFromSignal(t *testing.T) {
	tr, _ := newTestTracker(t, &fakeSignal{online: true, readable: true})
	assert.True(t, tr.State().IsOnline)

	tr, _ = newTestTracker(t, &fakeSignal{online: false, readable: true})
	assert.False(t, tr.State().IsOnline)
}

func TestTracker_UnreadableSignalDefaultsOnline(t *testing.T) {
	tr, _ := newTestTracker(t, &fakeSignal{readable: false})

	assert.True(t, tr.State().IsOnline)
	assert.False(t, tr.State().WasOffline)
}

func TestTracker_OfflineThenRecoveryRaisesWindow(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	tr, fake := newTestTracker(t, sig)

	sig.down()
	state := tr.State()
	assert.False(t, state.IsOnline)
	assert.False(t, state.WasOffline)
	assert.Nil(t, state.LastOnlineAt)

	sig.up()
	state = tr.State()
	assert.True(t, state.IsOnline)
	assert.True(t, state.WasOffline)
	require.NotNil(t, state.LastOnlineAt)
	assert.Equal(t, fake.Now(), *state.LastOnlineAt)

	// Just short of the window the flag is still up.
	fake.Advance(recoveryWindow - time.Millisecond)
	assert.True(t, tr.State().WasOffline)

	fake.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		return !tr.State().WasOffline
	}, time.Second, time.Millisecond, "recovery flag should clear after the window")
	assert.True(t, tr.State().IsOnline)
}

func TestTracker_UpWithoutPriorOfflineIsNotARecovery(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	tr, fake := newTestTracker(t, sig)

	sig.up()

	state := tr.State()
	assert.True(t, state.IsOnline)
	assert.False(t, state.WasOffline, "no recovery signal without a genuine offline period")
	require.NotNil(t, state.LastOnlineAt)
	assert.Equal(t, fake.Now(), *state.LastOnlineAt)
}

func TestTracker_ReentrantRecoveryGetsFreshWindow(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	tr, fake := newTestTracker(t, sig)

	sig.down()
	sig.up()
	fake.Advance(3 * time.Second)

	// Second cycle before the first window expires.
	sig.down()
	sig.up()

	// The first recovery's timer would have fired by now; it must not
	// clear the flag the second recovery re-raised.
	fake.Advance(3 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.True(t, tr.State().WasOffline, "latest recovery governs: full fresh window")

	fake.Advance(2 * time.Second)
	require.Eventually(t, func() bool {
		return !tr.State().WasOffline
	}, time.Second, time.Millisecond)
}

func TestTracker_RepeatedOfflineDuringWindowKeepsFlagUp(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	tr, fake := newTestTracker(t, sig)

	sig.down()
	sig.up()
	fake.Advance(2 * time.Second)

	sig.down()
	assert.False(t, tr.State().IsOnline)
	// Going down does not touch the recovery flag.
	assert.True(t, tr.State().WasOffline)

	sig.up()
	fake.Advance(recoveryWindow)
	require.Eventually(t, func() bool {
		return !tr.State().WasOffline
	}, time.Second, time.Millisecond)
}

func TestTracker_CloseIsIdempotentAndUnsubscribes(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	tr := newTracker(sig, clockwork.NewFakeClock())

	tr.Close()
	tr.Close()

	sig.mu.Lock()
	defer sig.mu.Unlock()
	assert.Equal(t, 1, sig.unsubscribes)
}

func TestTracker_CloseMidOfflinePeriod(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	tr := newTracker(sig, clockwork.NewFakeClock())

	sig.down()
	tr.Close()

	assert.False(t, tr.State().IsOnline)
}

func TestTracker_ClosePendingWindowCancelsTimer(t *testing.T) {
	sig := &fakeSignal{online: true, readable: true}
	fake := clockwork.NewFakeClock()
	tr := newTracker(sig, fake)

	sig.down()
	sig.up()
	require.True(t, tr.State().WasOffline)

	tr.Close()

	// A fired timer after close must not mutate state.
	fake.Advance(recoveryWindow)
	time.Sleep(10 * time.Millisecond)
	assert.True(t, tr.State().WasOffline)
}
