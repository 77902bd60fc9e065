package format

import "testing"

func TestAlign(t *testing.T) {
	cases := []struct{ n, a, want int }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{17, 16, 32},
		{4095, 4096, 4096},
	}
	for _, c := range cases {
		if got := Align(c.n, c.a); got != c.want {
			t.Fatalf("Align(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestIsPow2(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 64, 4096} {
		if !IsPow2(n) {
			t.Fatalf("IsPow2(%d) = false", n)
		}
	}
	for _, n := range []int{-8, 0, 3, 6, 12, 4095} {
		if IsPow2(n) {
			t.Fatalf("IsPow2(%d) = true", n)
		}
	}
}

func TestAlignForward(t *testing.T) {
	if got := AlignForward(0x1001, 0x10); got != 0x1010 {
		t.Fatalf("AlignForward = %#x", got)
	}
	if got := AlignForward(0x1000, 0x10); got != 0x1000 {
		t.Fatalf("AlignForward on boundary = %#x", got)
	}
}

func TestPaddingAndWindow(t *testing.T) {
	raw := make([]byte, 256)
	// Step off the allocator's natural alignment so padding is observable.
	b := raw[3:]
	pad := Padding(b, 8)
	if (Addr(b)+uintptr(pad))%8 != 0 {
		t.Fatalf("padding %d does not reach an 8-byte boundary", pad)
	}
	if pad >= 8 {
		t.Fatalf("padding %d exceeds alignment", pad)
	}

	w, wpad, ok := Window(b, 8, 16)
	if !ok {
		t.Fatalf("Window reported no usable space")
	}
	if wpad != pad {
		t.Fatalf("Window pad = %d, want %d", wpad, pad)
	}
	if len(w)%16 != 0 || Addr(w)%8 != 0 {
		t.Fatalf("bad window: len=%d addr=%#x", len(w), Addr(w))
	}
	if cap(w) != len(w) {
		t.Fatalf("window capacity leaks past its length: cap=%d len=%d", cap(w), len(w))
	}
}

func TestWindowTooSmall(t *testing.T) {
	if _, _, ok := Window(make([]byte, 8), 8, 16); ok {
		t.Fatalf("expected no window for a buffer smaller than one unit")
	}
	if _, _, ok := Window(nil, 8, 8); ok {
		t.Fatalf("expected no window for an empty buffer")
	}
}
