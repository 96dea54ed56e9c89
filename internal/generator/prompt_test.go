package generator

import (
	"strings"
	"testing"
)

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(Input{Topic: "HTTP caching", Level: "intermediate", Count: 5}, DefaultConfig())

	for _, want := range []string{
		"Topic: HTTP caching",
		"Level: intermediate",
		"Number of questions: 5",
		"Options per question: 4",
		"Avoid these questions:\nNone",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildUserMessage_NoLevel(t *testing.T) {
	msg := buildUserMessage(Input{Topic: "DNS", Count: 1}, DefaultConfig())
	if strings.Contains(msg, "Level:") {
		t.Errorf("unexpected level line:\n%s", msg)
	}
}

func TestNumberedList_KeepsMostRecent(t *testing.T) {
	got := numberedList([]string{"a", "b", "c", "d"}, 2)
	if got != "1. c\n2. d" {
		t.Fatalf("unexpected list: %q", got)
	}
}
