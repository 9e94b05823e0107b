package waitlist_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/waitlist/modules/waitlist"
	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
	"github.com/dmitrymomot/waitlist/pkg/sink"
)

var errSinkFailure = errors.New("sink rejected payload")

const testEndpoint = "https://script.example.com/macros/s/test/exec"

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.UTC)

func validInput() waitlist.Input {
	return waitlist.Input{
		Name:     "Meena Nair",
		Email:    "meena@example.com",
		Phone:    "+91 98470 12345",
		Location: "Wayanad, Kerala",
		Message:  "Looking forward to the harvest season.",
	}
}

func validRecord() waitlist.Record {
	return waitlist.NewRecord(waitlist.Guest, validInput(), testNow)
}

// fakeSender records every Send and answers with a fixed result.
type fakeSender struct {
	mu       sync.Mutex
	calls    int
	fields   []sink.Fields
	delivery *sink.Delivery
	err      error
	wait     chan struct{}
}

func (s *fakeSender) Send(ctx context.Context, _ string, fields sink.Fields) (*sink.Delivery, error) {
	s.mu.Lock()
	s.calls++
	s.fields = append(s.fields, fields)
	wait := s.wait
	s.mu.Unlock()

	if wait != nil {
		<-wait
	}

	delivery := s.delivery
	if delivery == nil {
		delivery = &sink.Delivery{StatusCode: 200, Duration: 5 * time.Millisecond}
	}
	return delivery, s.err
}

func (s *fakeSender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeSender) Field(call int, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fields[call] {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// stubLimiter answers every Allow with a fixed result.
type stubLimiter struct {
	result *ratelimit.Result
	err    error
}

func (l stubLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return l.result, l.err
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
