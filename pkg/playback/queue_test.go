package playback

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(4)

	first := NewClip("one", []byte{1})
	second := NewClip("two", []byte{2})
	q.Enqueue(first)
	q.Enqueue(second)

	ctx := context.Background()
	got, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got.ID != first.ID {
		t.Error("clips dequeued out of order")
	}

	got, _ = q.Dequeue(ctx)
	if got.ID != second.ID {
		t.Error("second clip out of order")
	}
}

func TestQueue_DropWhenFull(t *testing.T) {
	q := NewQueue(2)

	if !q.Enqueue(NewClip("a", nil)) || !q.Enqueue(NewClip("b", nil)) {
		t.Fatal("enqueue within capacity failed")
	}

	// Full queue: the newest clip is dropped, nothing blocks or panics.
	done := make(chan bool, 1)
	go func() { done <- q.Enqueue(NewClip("c", nil)) }()

	select {
	case ok := <-done:
		if ok {
			t.Error("Enqueue on full queue reported success")
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue on full queue blocked")
	}

	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}
}

func TestQueue_NeverExceedsCapacity(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 100; i++ {
		q.Enqueue(NewClip("x", nil))
		if q.Len() > q.Cap() {
			t.Fatalf("Len %d exceeded Cap %d", q.Len(), q.Cap())
		}
	}
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue(8)
	for i := 0; i < 5; i++ {
		q.Enqueue(NewClip("x", nil))
	}

	if n := q.Drain(); n != 5 {
		t.Errorf("Drain = %d, want 5", n)
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}

	// Draining an empty queue does not block.
	if n := q.Drain(); n != 0 {
		t.Errorf("second Drain = %d, want 0", n)
	}
}

func TestQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewQueue(1)
	clip := NewClip("late", nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Enqueue(clip)
	}()

	got, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got.ID != clip.ID {
		t.Error("wrong clip dequeued")
	}
}

func TestQueue_DequeueHonorsContext(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); err == nil {
		t.Error("Dequeue on empty queue returned without error after cancel")
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue(1000)

	var wg sync.WaitGroup
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				q.Enqueue(NewClip("x", nil))
			}
		}()
	}
	wg.Wait()

	if q.Len() != 400 {
		t.Errorf("Len = %d, want 400", q.Len())
	}
}
