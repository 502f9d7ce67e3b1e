// ABOUTME: Tests for the chat screen model
// ABOUTME: Covers canned reply selection and message history handling

package chat

import (
	"strings"
	"testing"
)

func TestNew_StartsWithGreeting(t *testing.T) {
	c := New(80, 24)

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 greeting message, got %d", len(msgs))
	}
	if msgs[0].Sender != "assistant" {
		t.Errorf("expected assistant greeting, got sender %s", msgs[0].Sender)
	}
	if msgs[0].ID == "" {
		t.Error("expected message to have an ID")
	}
}

func TestReplyFor_Keywords(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"I have a fever and chest pain", "symptoms"},
		{"can I take this medication with food", "pharmacist"},
		{"how do I schedule an appointment", "appointments"},
		{"where are my lab results", "records"},
		{"hello there", "general health information"},
	}

	for _, tc := range cases {
		got := replyFor(tc.question)
		if !strings.Contains(got, tc.want) {
			t.Errorf("replyFor(%q) = %q, expected it to mention %q", tc.question, got, tc.want)
		}
	}
}

func TestReplyFor_MedicalAdviceDisclaimer(t *testing.T) {
	got := replyFor("what should I do about this pain")
	if !strings.Contains(got, "not a substitute for professional medical advice") {
		t.Error("expected disclaimer on symptom questions")
	}
}

func TestSend_IgnoresEmptyInput(t *testing.T) {
	c := New(80, 24)
	c.input.SetValue("   ")

	if cmd := c.send(); cmd != nil {
		t.Error("expected no command for blank input")
	}
	if len(c.Messages()) != 1 {
		t.Error("expected no message appended for blank input")
	}
}

func TestSend_AppendsUserMessage(t *testing.T) {
	c := New(80, 24)
	c.input.SetValue("where are my records")

	cmd := c.send()
	if cmd == nil {
		t.Fatal("expected a reply command")
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Sender != "user" {
		t.Errorf("expected user message, got sender %s", msgs[1].Sender)
	}
	if !c.typing {
		t.Error("expected typing indicator while reply is pending")
	}
}

func TestSend_RejectedWhileTyping(t *testing.T) {
	c := New(80, 24)
	c.input.SetValue("first question")
	c.send()

	c.input.SetValue("second question")
	if cmd := c.send(); cmd != nil {
		t.Error("expected send to be rejected while a reply is pending")
	}
}

func TestUpdate_ReplyClearsTyping(t *testing.T) {
	c := New(80, 24)
	c.input.SetValue("hello")
	c.send()

	c.Update(replyMsg{id: "reply-1", text: "hi there"})

	if c.typing {
		t.Error("expected typing cleared after reply")
	}
	msgs := c.Messages()
	if msgs[len(msgs)-1].Text != "hi there" {
		t.Errorf("expected reply appended, got %q", msgs[len(msgs)-1].Text)
	}
}
