package eventbus

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectfeed/internal/domain"
)

func collect(t *testing.T, b EventBus, et EventType) (func() []DomainEvent, func()) {
	t.Helper()
	var mu sync.Mutex
	var got []DomainEvent
	unsub := b.Subscribe(et, func(e DomainEvent) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	return func() []DomainEvent {
		mu.Lock()
		defer mu.Unlock()
		out := make([]DomainEvent, len(got))
		copy(out, got)
		return out
	}, unsub
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()
	defer b.Close()

	events, _ := collect(t, b, EventPageLoaded)
	for i := 1; i <= 5; i++ {
		b.Publish(PageLoadedEvent{Total: i})
	}

	require.Eventually(t, func() bool { return len(events()) == 5 }, time.Second, 5*time.Millisecond)
	for i, e := range events() {
		assert.Equal(t, i+1, e.(PageLoadedEvent).Total)
	}
}

func TestSubscribeFiltersByType(t *testing.T) {
	b := New()
	defer b.Close()

	loaded, _ := collect(t, b, EventPageLoaded)
	failed, _ := collect(t, b, EventPageFailed)

	b.Publish(PageFailedEvent{Params: domain.DiscoveryParams{Page: 2}})

	require.Eventually(t, func() bool { return len(failed()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, loaded())
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := New()
	defer b.Close()

	first, unsubFirst := collect(t, b, EventFeedCleared)
	second, _ := collect(t, b, EventFeedCleared)

	unsubFirst()
	unsubFirst() // second call is a no-op
	b.Publish(FeedClearedEvent{})

	require.Eventually(t, func() bool { return len(second()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, first())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New()
	defer b.Close()

	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	events, _ := collect(t, b, EventError)

	b.Publish(ErrorEvent{Message: "first"})
	b.Publish(ErrorEvent{Message: "second"})

	require.Eventually(t, func() bool { return len(events()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	events, _ := collect(t, b, EventConfigSaved)
	b.Close()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(ConfigSavedEvent{}) })
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, events())
}

// lockedBuffer is written from the dispatcher goroutine and read by the test
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

func TestBusLogsToConfiguredLogger(t *testing.T) {
	out := &lockedBuffer{}
	b := New(WithLogger(zerolog.New(out).Level(zerolog.DebugLevel)))
	defer b.Close()

	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Publish(ErrorEvent{Message: "first"})

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "event handler panic")
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), `"message":"publish"`)
	assert.Contains(t, out.String(), `"event":"Error"`)
}
