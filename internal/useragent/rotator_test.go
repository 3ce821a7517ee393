package useragent

import "testing"

func TestRotatorDefaults(t *testing.T) {
	r := NewRotator()
	for i := 0; i < 20; i++ {
		if r.Get() == "" {
			t.Fatal("rotator returned an empty user agent")
		}
	}
}

func TestRotatorCustomPool(t *testing.T) {
	r := NewRotator("custom-agent/1.0")
	for i := 0; i < 5; i++ {
		if got := r.Get(); got != "custom-agent/1.0" {
			t.Fatalf("expected the custom agent, got %q", got)
		}
	}
}
