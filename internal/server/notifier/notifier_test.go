package notifier

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/incidentkeeper/internal/logging"
	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

type fakeConn struct {
	closed atomic.Bool
}

func (c *fakeConn) Closed() bool { return c.closed.Load() }

type recorder struct {
	mu  sync.Mutex
	got [][]models.Incident
}

func (r *recorder) callback(snapshot []models.Incident) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, snapshot)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func newNotifier() *Notifier[models.Incident] {
	return New[models.Incident](logging.Nop())
}

func TestNotifyAll_DeliversToEverySubscriber(t *testing.T) {
	n := newNotifier()
	a, b := &recorder{}, &recorder{}
	n.Subscribe(&fakeConn{}, a.callback)
	n.Subscribe(&fakeConn{}, b.callback)

	snapshot := []models.Incident{models.NewIncident("alice", "room1", "leak")}
	n.NotifyAll(snapshot)

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
	assert.Equal(t, snapshot, a.got[0])
	assert.Equal(t, snapshot, b.got[0])
}

func TestNotifyAll_SubscribersGetIndependentCopies(t *testing.T) {
	n := newNotifier()
	a, b := &recorder{}, &recorder{}
	n.Subscribe(&fakeConn{}, a.callback)
	n.Subscribe(&fakeConn{}, b.callback)

	snapshot := []models.Incident{models.NewIncident("alice", "room1", "leak")}
	n.NotifyAll(snapshot)

	a.got[0][0].Location = "changed"
	assert.Equal(t, "room1", b.got[0][0].Location)
	assert.Equal(t, "room1", snapshot[0].Location)
}

func TestSubscribe_ReplacesCallbackForSameHandle(t *testing.T) {
	n := newNotifier()
	h := &fakeConn{}
	first, second := &recorder{}, &recorder{}

	n.Subscribe(h, first.callback)
	n.Subscribe(h, second.callback)
	assert.Equal(t, 1, n.Len())

	n.NotifyAll(nil)
	assert.Equal(t, 0, first.count())
	assert.Equal(t, 1, second.count())
}

func TestNotifyAll_SkipsAndPrunesClosedHandles(t *testing.T) {
	n := newNotifier()
	open, gone := &fakeConn{}, &fakeConn{}
	live, dead := &recorder{}, &recorder{}
	n.Subscribe(open, live.callback)
	n.Subscribe(gone, dead.callback)

	gone.closed.Store(true)
	n.NotifyAll([]models.Incident{})

	assert.Equal(t, 1, live.count())
	assert.Equal(t, 0, dead.count())
	assert.Equal(t, 1, n.Len(), "closed handle must be dropped")
}

func TestNotifyAll_PanickingCallbackDoesNotStopOthers(t *testing.T) {
	n := newNotifier()
	ok := &recorder{}
	n.Subscribe(&fakeConn{}, func([]models.Incident) { panic("boom") })
	n.Subscribe(&fakeConn{}, ok.callback)

	require.NotPanics(t, func() { n.NotifyAll(nil) })
	assert.Equal(t, 1, ok.count())
}

func TestUnsubscribe(t *testing.T) {
	n := newNotifier()
	h := &fakeConn{}
	r := &recorder{}
	n.Subscribe(h, r.callback)
	n.Unsubscribe(h)
	n.Unsubscribe(h)

	n.NotifyAll(nil)
	assert.Equal(t, 0, r.count())
	assert.Equal(t, 0, n.Len())
}

func TestNotifier_CallbackMayUnsubscribe(t *testing.T) {
	n := newNotifier()
	h := &fakeConn{}
	calls := 0
	n.Subscribe(h, func([]models.Incident) {
		calls++
		n.Unsubscribe(h)
	})

	n.NotifyAll(nil)
	n.NotifyAll(nil)
	assert.Equal(t, 1, calls)
}
