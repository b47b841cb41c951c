package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"InfiniteDbAccounts/internal/domain"
	"InfiniteDbAccounts/internal/email"

	"github.com/segmentio/kafka-go"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

var testAccount = domain.Account{ID: "acc-1", Email: "a@x.com"}

func TestEventPublisherRoutesTopics(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	w := &captureWriter{}
	p := &EventPublisher{Writer: w, Now: func() time.Time { return now }}
	ctx := context.Background()

	if err := p.VerificationCodeSent(ctx, testAccount, "123456"); err != nil {
		t.Fatalf("VerificationCodeSent: %v", err)
	}
	if err := p.VerificationCodeRequested(ctx, testAccount, "654321"); err != nil {
		t.Fatalf("VerificationCodeRequested: %v", err)
	}
	if err := p.PasswordResetRequested(ctx, testAccount, "tok"); err != nil {
		t.Fatalf("PasswordResetRequested: %v", err)
	}
	if err := p.AccountCreated(ctx, testAccount); err != nil {
		t.Fatalf("AccountCreated: %v", err)
	}
	if err := p.AccountDeleted(ctx, testAccount); err != nil {
		t.Fatalf("AccountDeleted: %v", err)
	}

	want := []struct {
		topic, eventType, code, token string
	}{
		{DefaultLifecycleTopic, EventVerificationCodeSent, "123456", ""},
		{DefaultVerificationTopic, EventVerificationCodeRequested, "654321", ""},
		{DefaultLifecycleTopic, EventPasswordResetRequested, "", "tok"},
		{DefaultLifecycleTopic, EventAccountCreated, "", ""},
		{DefaultLifecycleTopic, EventAccountDeleted, "", ""},
	}
	if len(w.msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(w.msgs), len(want))
	}
	for i, wm := range want {
		msg := w.msgs[i]
		if msg.Topic != wm.topic {
			t.Fatalf("msg %d topic = %q, want %q", i, msg.Topic, wm.topic)
		}
		if string(msg.Key) != "acc-1" {
			t.Fatalf("msg %d key = %q", i, msg.Key)
		}
		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			t.Fatalf("msg %d: %v", i, err)
		}
		if evt.EventType != wm.eventType || evt.UserID != "acc-1" || evt.Email != "a@x.com" ||
			evt.Code != wm.code || evt.Token != wm.token || !evt.OccurredAt.Equal(now) {
			t.Fatalf("msg %d: unexpected event %+v", i, evt)
		}
	}
}

func TestEventPayloadFieldNames(t *testing.T) {
	w := &captureWriter{}
	p := &EventPublisher{Writer: w, LifecycleTopic: "custom"}
	if err := p.PasswordResetRequested(context.Background(), testAccount, "tok"); err != nil {
		t.Fatalf("PasswordResetRequested: %v", err)
	}
	if w.msgs[0].Topic != "custom" {
		t.Fatalf("topic = %q", w.msgs[0].Topic)
	}
	raw := string(w.msgs[0].Value)
	for _, key := range []string{`"EventType":"PasswordResetRequested"`, `"UserId":"acc-1"`, `"Token":"tok"`} {
		if !strings.Contains(raw, key) {
			t.Fatalf("payload %s missing %s", raw, key)
		}
	}
	if strings.Contains(raw, `"Code"`) {
		t.Fatalf("empty code should be omitted: %s", raw)
	}
}

func TestEventPublisherWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &EventPublisher{Writer: &captureWriter{err: boom}}
	err := p.AccountDeleted(context.Background(), testAccount)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped writer error, got %v", err)
	}
}

type captureSender struct {
	msgs []email.Message
	err  error
}

func (s *captureSender) Send(_ context.Context, msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func TestEmailDispatcherTemplates(t *testing.T) {
	sender := &captureSender{}
	d := &EmailDispatcher{Sender: sender, FromEmail: "noreply@infinitedb.test", FromName: "InfiniteDb"}
	ctx := context.Background()

	_ = d.VerificationCodeSent(ctx, testAccount, "123456")
	_ = d.VerificationCodeRequested(ctx, testAccount, "654321")
	_ = d.AccountCreated(ctx, testAccount)
	_ = d.PasswordResetRequested(ctx, testAccount, "tok")
	_ = d.AccountDeleted(ctx, testAccount)

	subjects := []string{
		"Your verification code",
		"Your verification code",
		"Welcome to InfiniteDb!",
		"Reset your password",
		"Your InfiniteDb account has been deleted",
	}
	if len(sender.msgs) != len(subjects) {
		t.Fatalf("got %d messages, want %d", len(sender.msgs), len(subjects))
	}
	for i, s := range subjects {
		m := sender.msgs[i]
		if m.Subject != s || m.ToEmail != "a@x.com" || m.FromEmail != "noreply@infinitedb.test" {
			t.Fatalf("msg %d: unexpected %+v", i, m)
		}
	}
	if !strings.Contains(sender.msgs[1].TextBody, "654321") {
		t.Fatalf("requested code missing from body")
	}
	if !strings.Contains(sender.msgs[3].TextBody, DefaultResetURL+"?token=tok") {
		t.Fatalf("reset link missing: %q", sender.msgs[3].TextBody)
	}
}

func TestFanoutJoinsErrorsAndContinues(t *testing.T) {
	failing := &EmailDispatcher{Sender: &captureSender{err: errors.New("smtp down")}}
	w := &captureWriter{}
	f := Fanout{failing, &EventPublisher{Writer: w}}

	err := f.AccountCreated(context.Background(), testAccount)
	if err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("later dispatcher skipped after failure")
	}
}
