package audio

import "testing"

func TestRingBufferWraps(t *testing.T) {
	ring := NewRingBuffer(10)

	for i := 0; i < 20; i++ {
		ring.Add([]float32{float32(i)})
	}

	got := ring.Read()
	if len(got) != 10 {
		t.Fatalf("Read returned %d samples, want 10", len(got))
	}
	for i := 0; i < 10; i++ {
		if got[i] != float32(10+i) {
			t.Errorf("sample %d = %f, want %d", i, got[i], 10+i)
		}
	}
}

func TestRingBufferPartialFill(t *testing.T) {
	ring := NewRingBuffer(10)
	ring.Add([]float32{1, 2, 3})

	got := ring.Read()
	if len(got) != 3 {
		t.Fatalf("Read returned %d samples, want 3 (no zero padding)", len(got))
	}
	if got[0] != 1 || got[2] != 3 {
		t.Errorf("Read = %v, want [1 2 3]", got)
	}
}

func TestRingBufferClear(t *testing.T) {
	ring := NewRingBuffer(4)
	ring.Add([]float32{1, 2, 3, 4, 5})
	ring.Clear()

	if got := ring.Read(); len(got) != 0 {
		t.Errorf("Read after Clear = %v, want empty", got)
	}
}
