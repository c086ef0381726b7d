package audio

// RingBuffer keeps the most recent samples so the start of an utterance
// is not clipped while the gate decides whether someone is speaking.
type RingBuffer struct {
	buffer []float32
	head   int
	filled int
}

func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buffer: make([]float32, size),
	}
}

func (r *RingBuffer) Add(samples []float32) {
	for _, s := range samples {
		r.buffer[r.head] = s
		r.head = (r.head + 1) % len(r.buffer)
		if r.filled < len(r.buffer) {
			r.filled++
		}
	}
}

// Read returns the buffered samples, oldest first.
func (r *RingBuffer) Read() []float32 {
	out := make([]float32, r.filled)
	start := (r.head - r.filled + len(r.buffer)) % len(r.buffer)
	for i := 0; i < r.filled; i++ {
		out[i] = r.buffer[(start+i)%len(r.buffer)]
	}
	return out
}

func (r *RingBuffer) Clear() {
	r.head = 0
	r.filled = 0
}
