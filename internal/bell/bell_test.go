package bell

import "testing"

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path/to/bell.wav"); err == nil {
		t.Fatalf("expected an error loading a missing WAV file")
	}
}

func TestPlayNilSampleIsNoop(t *testing.T) {
	var a *Audio
	a.Play(nil) // must not panic even on an unopened Audio
}
