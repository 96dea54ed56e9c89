package feedback

import (
	"bytes"
	"testing"
)

func TestBell(t *testing.T) {
	tests := []struct {
		name  string
		muted bool
		play  func(b *Bell)
		want  string
	}{
		{"positive rings once", false, (*Bell).PlayPositive, "\a"},
		{"incorrect rings twice", false, (*Bell).PlayIncorrect, "\a\a"},
		{"muted is silent", true, (*Bell).PlayPositive, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			b := NewBell(&buf, nil)
			b.SetMuted(tt.muted)
			tt.play(b)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBell_MuteToggle(t *testing.T) {
	b := NewBell(&bytes.Buffer{}, nil)
	if b.IsMuted() {
		t.Fatal("new bell should not be muted")
	}
	b.SetMuted(true)
	if !b.IsMuted() {
		t.Error("IsMuted() = false after SetMuted(true)")
	}
}

func TestBell_DisposeSilences(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, nil)
	if err := b.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	b.PlayPositive()
	if buf.Len() != 0 {
		t.Errorf("disposed bell wrote %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	var n Nop
	n.PlayPositive()
	n.PlayIncorrect()
	n.SetMuted(true)
	if !n.IsMuted() {
		t.Error("IsMuted() = false after SetMuted(true)")
	}
}
