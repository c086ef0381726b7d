package audioconv

import (
	"math"
	"testing"
)

func TestDownmix(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmix(stereo, 2)

	want := []float32{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("downmix produced %d frames, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-6 {
			t.Errorf("frame %d = %f, want %f", i, mono[i], want[i])
		}
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2}
	if out := downmix(in, 1); len(out) != 2 || out[0] != 0.1 {
		t.Errorf("mono input should pass through, got %v", out)
	}
}

func TestResampleHalves(t *testing.T) {
	in := make([]float32, 320) // 10ms @ 32k
	for i := range in {
		in[i] = float32(i) / 320
	}

	out := resample(in, 32000, 16000)
	if len(out) != 160 {
		t.Fatalf("resample 32k->16k produced %d samples, want 160", len(out))
	}

	// linear interpolation of a ramp stays a ramp
	for i := 1; i < len(out)-1; i++ {
		if out[i] < out[i-1] {
			t.Fatalf("output not monotonic at %d", i)
		}
	}
}

func TestResampleSameRate(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := resample(in, 16000, 16000)
	if len(out) != 3 || out[2] != 0.3 {
		t.Errorf("same-rate resample should be identity, got %v", out)
	}
}

func TestInt16sToFloat32(t *testing.T) {
	out := int16sToFloat32([]int16{0, 16384, -32768})
	if out[0] != 0 {
		t.Errorf("zero sample = %f", out[0])
	}
	if math.Abs(float64(out[1])-0.5) > 1e-4 {
		t.Errorf("half-scale sample = %f, want 0.5", out[1])
	}
	if math.Abs(float64(out[2])+1.0) > 1e-4 {
		t.Errorf("full-scale sample = %f, want -1", out[2])
	}
}

func TestIntsToFloat32Clamps(t *testing.T) {
	out := intsToFloat32([]int{40000}, 16)
	if out[0] != 1.0 {
		t.Errorf("overdriven sample = %f, want clamped to 1", out[0])
	}
}

func TestFinishCapsSamples(t *testing.T) {
	in := make([]float32, 1000)
	out := finish(in, 1, TargetRate, Options{MaxSamples: 100})
	if len(out) != 100 {
		t.Errorf("cap not applied, got %d samples", len(out))
	}
}
