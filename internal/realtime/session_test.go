package realtime

import (
	"testing"
)

func TestSession_TrySendAfterClose(t *testing.T) {
	s := NewSession("s1", "user1", nil)
	s.CloseWithReason(1000, "test")

	if s.TrySend([]byte("late")) {
		t.Error("TrySend must report failure on a closed session")
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done must be closed after CloseWithReason")
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s := NewSession("s1", "user1", nil)
	s.Close()
	s.Close()
	s.CloseWithReason(1001, "again")
}

func TestSession_BackpressureOverflowDropsConnection(t *testing.T) {
	s := NewSession("s1", "user1", nil)

	for i := 0; i < SendQueueSize; i++ {
		if !s.TrySend([]byte("fill")) {
			t.Fatalf("queue should accept %d frames, failed at %d", SendQueueSize, i)
		}
	}

	// One more frame overflows the queue: the session must be dropped
	// rather than block the broadcaster.
	if s.TrySend([]byte("overflow")) {
		t.Error("overflowing TrySend must report failure")
	}

	select {
	case <-s.Done():
	default:
		t.Error("session must be closed after backpressure overflow")
	}
}
