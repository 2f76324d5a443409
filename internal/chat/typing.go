package chat

import (
	"strings"
	"sync"
	"time"
)

// typingIdle is how long after the last keystroke the typing indicator
// expires client-side.
const typingIdle = 1000 * time.Millisecond

// TypingEmitter is the slice of the realtime channel the typist needs.
type TypingEmitter interface {
	TypingStart(conversationID string)
	TypingStop(conversationID string)
}

// Typist drives the local user's typing signal for one conversation. Every
// keystroke with non-empty content emits typing_start and restarts the idle
// timer; the timer expiring, the input being cleared, or a message being sent
// emits typing_stop.
type Typist struct {
	emitter TypingEmitter
	id      string
	idle    time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewTypist(emitter TypingEmitter, conversationID string) *Typist {
	return &Typist{emitter: emitter, id: conversationID, idle: typingIdle}
}

// Keystroke reports the current input content after a keystroke.
func (t *Typist) Keystroke(text string) {
	if strings.TrimSpace(text) == "" {
		t.Stop()
		return
	}

	t.emitter.TypingStart(t.id)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.idle, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		t.emitter.TypingStop(t.id)
	})
}

// Sent is called when a message goes out: the signal stops immediately.
func (t *Typist) Sent() {
	t.Stop()
}

// Stop cancels the idle timer and emits typing_stop now.
func (t *Typist) Stop() {
	t.cancelTimer()
	t.emitter.TypingStop(t.id)
}

// Cancel drops any pending timer without emitting anything. Used when the
// conversation is closed, where a late typing_stop would target the wrong
// conversation.
func (t *Typist) Cancel() {
	t.cancelTimer()
}

func (t *Typist) cancelTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
