package keys

import "testing"

func TestControlNormalizesCase(t *testing.T) {
	if Control('S') != Control('s') {
		t.Fatalf("Ctrl+S and Ctrl+s should be the same event")
	}
	if got := Control('s').String(); got != "Ctrl+S" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestIsPrintableASCII(t *testing.T) {
	for _, c := range []rune{' ', 'a', '~', '0'} {
		if !Printable(c).IsPrintableASCII() {
			t.Fatalf("%q should be printable", c)
		}
	}
	for _, c := range []rune{0x1f, 0x7f, 'é', '\t'} {
		if Printable(c).IsPrintableASCII() {
			t.Fatalf("%q should not be printable", c)
		}
	}
	if Control('a').IsPrintableASCII() {
		t.Fatalf("control events are never printable")
	}
}

func TestScript(t *testing.T) {
	s := NewScript(Escape()).Type("hi").Push(Enter())
	if s.Remaining() != 4 {
		t.Fatalf("expected 4 events, got %d", s.Remaining())
	}
	want := []Event{Escape(), Printable('h'), Printable('i'), Enter()}
	for i, w := range want {
		ev, ok := s.Next()
		if !ok || ev != w {
			t.Fatalf("event %d: expected %v, got %v (ok=%v)", i, w, ev, ok)
		}
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("script should be closed")
	}
}

func TestString(t *testing.T) {
	cases := map[Event]string{
		Nav(Up):        "Up",
		Nav(Right):     "Right",
		Escape():       "Esc",
		Enter():        "Enter",
		Backspace():    "Backspace",
		Printable('x'): "'x'",
		Wake():         "Wake",
		Unmapped():     "None",
	}
	for ev, want := range cases {
		if got := ev.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
