package waitlist

import (
	"strings"
	"time"

	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
	"github.com/dmitrymomot/waitlist/pkg/sanitizer"
	"github.com/dmitrymomot/waitlist/pkg/sink"
)

// TimestampLayout is ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Input holds the free-text fields a visitor types into either form.
type Input struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Message  string
}

// Record is one waitlist submission. It is a value: build it with NewRecord
// and pass it by copy. Nothing in this package stores it.
type Record struct {
	UserType  UserType
	Name      string
	Email     string
	Phone     string
	Location  string
	Message   string
	Timestamp time.Time
}

// NewRecord stamps in with now, truncated to milliseconds in UTC.
func NewRecord(userType UserType, in Input, now time.Time) Record {
	return Record{
		UserType:  userType,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Location:  in.Location,
		Message:   in.Message,
		Timestamp: now.UTC().Truncate(time.Millisecond),
	}
}

// Identifier is the rate-limit key: normalized e-mail plus user type, so the
// same address may join both waitlists.
func (r Record) Identifier() string {
	return ratelimit.Key(strings.ToLower(strings.TrimSpace(r.Email)), string(r.UserType))
}

// Fields is the outbound payload in wire order.
func (r Record) Fields() sink.Fields {
	return sink.Fields{
		{Name: "userType", Value: string(r.UserType)},
		{Name: "name", Value: r.Name},
		{Name: "email", Value: r.Email},
		{Name: "phone", Value: r.Phone},
		{Name: "location", Value: r.Location},
		{Name: "message", Value: r.Message},
		{Name: "timestamp", Value: r.Timestamp.UTC().Format(TimestampLayout)},
	}
}

// Sanitized returns a copy with every free-text field passed through
// sanitizer.FormInput.
func (r Record) Sanitized() Record {
	r.Name = sanitizer.FormInput(r.Name)
	r.Email = sanitizer.FormInput(r.Email)
	r.Phone = sanitizer.FormInput(r.Phone)
	r.Location = sanitizer.FormInput(r.Location)
	r.Message = sanitizer.FormInput(r.Message)
	return r
}
