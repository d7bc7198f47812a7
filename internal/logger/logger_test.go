package logger

import "testing"

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := New("debug", format)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", format, err)
		}
		if !log.Core().Enabled(-1) {
			t.Errorf("%s: debug level should be enabled", format)
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New("loud", "json"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
