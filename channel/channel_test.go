package channel

import (
	"testing"
	"time"
)

func TestNew_ZeroCapacity(t *testing.T) {
	if _, err := New[int](0); err == nil {
		t.Error("expected error for capacity 0")
	}
	if _, err := New[int](-3); err == nil {
		t.Error("expected error for negative capacity")
	}
}

func TestForcePush_OverwritesOldest(t *testing.T) {
	b, err := New[string](2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	b.ForcePush("A")
	b.ForcePush("B")
	b.ForcePush("C")

	if b.Len() != 2 {
		t.Fatalf("expected len 2, got %d", b.Len())
	}
	v, ok := b.TryPop()
	if !ok || v != "B" {
		t.Errorf("expected B, got %q (ok=%v)", v, ok)
	}
	v, ok = b.TryPop()
	if !ok || v != "C" {
		t.Errorf("expected C, got %q (ok=%v)", v, ok)
	}
}

func TestForcePush_KeepsNewestN(t *testing.T) {
	b, _ := New[int](3)
	for i := 1; i <= 10; i++ {
		b.ForcePush(i)
	}
	for _, want := range []int{8, 9, 10} {
		v, ok := b.TryPop()
		if !ok || v != want {
			t.Errorf("expected %d, got %d (ok=%v)", want, v, ok)
		}
	}
	if !b.Empty() {
		t.Error("expected empty channel")
	}
}

func TestPushPop_RoundTrip(t *testing.T) {
	b, _ := New[int](4)
	b.Push(42)
	v, ok := b.Pop()
	if !ok || v != 42 {
		t.Errorf("expected 42, got %d (ok=%v)", v, ok)
	}
	if b.Len() != 0 {
		t.Errorf("expected len 0, got %d", b.Len())
	}
}

func TestTryPop_Empty(t *testing.T) {
	b, _ := New[int](1)
	if _, ok := b.TryPop(); ok {
		t.Error("TryPop on empty channel should report false")
	}
}

func TestTryPeek_DoesNotRemove(t *testing.T) {
	b, _ := New[int](2)
	b.Push(7)
	v, ok := b.TryPeek()
	if !ok || v != 7 {
		t.Errorf("expected 7, got %d (ok=%v)", v, ok)
	}
	if b.Len() != 1 {
		t.Errorf("peek should not remove, len=%d", b.Len())
	}
}

func TestPopWait_Timeout(t *testing.T) {
	b, _ := New[int](1)
	start := time.Now()
	_, ok := b.PopWait(30 * time.Millisecond)
	if ok {
		t.Error("expected timeout")
	}
	if time.Since(start) < 25*time.Millisecond {
		t.Error("PopWait returned before the timeout elapsed")
	}
}

func TestPopWait_ReceivesConcurrentPush(t *testing.T) {
	b, _ := New[int](1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Push(9)
	}()
	v, ok := b.PopWait(500 * time.Millisecond)
	if !ok || v != 9 {
		t.Errorf("expected 9, got %d (ok=%v)", v, ok)
	}
}

func TestPushWait_TimeoutOnFull(t *testing.T) {
	b, _ := New[int](1)
	b.Push(1)
	if b.PushWait(2, 30*time.Millisecond) {
		t.Error("expected PushWait to time out on a full channel")
	}
	// channel unchanged on failure
	if b.Len() != 1 {
		t.Errorf("expected len 1 after failed push, got %d", b.Len())
	}
	v, _ := b.TryPop()
	if v != 1 {
		t.Errorf("expected original item 1, got %d", v)
	}
}

func TestPushWait_SucceedsWhenDrained(t *testing.T) {
	b, _ := New[int](1)
	b.Push(1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		b.TryPop()
	}()
	if !b.PushWait(2, 500*time.Millisecond) {
		t.Error("expected PushWait to succeed after a concurrent pop")
	}
}

func TestClear_ResetsAndWakesWaiters(t *testing.T) {
	b, _ := New[int](3)
	b.Push(1)
	b.Push(2)

	done := make(chan bool, 1)
	go func() {
		b.TryPop()
		b.TryPop()
		_, ok := b.Pop() // blocks: channel now empty
		done <- ok
	}()

	time.Sleep(30 * time.Millisecond)
	b.Clear()

	select {
	case ok := <-done:
		if ok {
			t.Error("waiter woken by Clear should report no item, like a timeout")
		}
	case <-time.After(time.Second):
		t.Fatal("Clear did not wake the blocked waiter")
	}

	if b.Len() != 0 {
		t.Errorf("expected empty channel after Clear, got len %d", b.Len())
	}
	b.Push(5)
	v, ok := b.TryPop()
	if !ok || v != 5 {
		t.Errorf("channel unusable after Clear: got %d (ok=%v)", v, ok)
	}
}

func TestFIFO_Interleaved(t *testing.T) {
	b, _ := New[int](4)
	b.Push(1)
	b.Push(2)
	if v, _ := b.TryPop(); v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	b.Push(3)
	b.Push(4)
	for _, want := range []int{2, 3, 4} {
		v, ok := b.TryPop()
		if !ok || v != want {
			t.Errorf("expected %d, got %d (ok=%v)", want, v, ok)
		}
	}
}
