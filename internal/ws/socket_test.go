package ws

import "testing"

func TestAsInt(t *testing.T) {
	if v, ok := asInt(float64(42.9)); !ok || v != 42 {
		t.Errorf("float64 coercion: %d, %v", v, ok)
	}
	if v, ok := asInt(7); !ok || v != 7 {
		t.Errorf("int coercion: %d, %v", v, ok)
	}
	if _, ok := asInt("42"); ok {
		t.Error("string coerced to int")
	}
	if _, ok := asInt(nil); ok {
		t.Error("nil coerced to int")
	}
}

func TestAsStrings(t *testing.T) {
	got, ok := asStrings([]any{"a", "b"})
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected result: %v, %v", got, ok)
	}
	if _, ok := asStrings([]any{"a", 3}); ok {
		t.Error("mixed list accepted")
	}
	if _, ok := asStrings("a"); ok {
		t.Error("bare string accepted")
	}
}

func TestAsPairs(t *testing.T) {
	got, ok := asPairs([]any{
		[]any{"France", "Paris"},
		[]any{"Spain", "Madrid"},
	})
	if !ok || len(got) != 2 || got[0][1] != "Paris" {
		t.Errorf("unexpected result: %v, %v", got, ok)
	}
	if _, ok := asPairs([]any{"France"}); ok {
		t.Error("non-list pair accepted")
	}
}
