package waitlist

import (
	"errors"

	"github.com/dmitrymomot/waitlist/pkg/validator"
)

// Limits caps each field's length in characters.
type Limits struct {
	Name     int `env:"MAX_NAME_LENGTH" envDefault:"100"`
	Email    int `env:"MAX_EMAIL_LENGTH" envDefault:"254"`
	Phone    int `env:"MAX_PHONE_LENGTH" envDefault:"20"`
	Location int `env:"MAX_LOCATION_LENGTH" envDefault:"100"`
	Message  int `env:"MAX_MESSAGE_LENGTH" envDefault:"1000"`
}

func DefaultLimits() Limits {
	return Limits{Name: 100, Email: 254, Phone: 20, Location: 100, Message: 1000}
}

func (l Limits) validate() error {
	if l.Name <= 0 || l.Email <= 0 || l.Phone <= 0 || l.Location <= 0 || l.Message <= 0 {
		return errors.New("field length limits must be positive")
	}
	return nil
}

// Validate checks r against the form constraints. The returned error wraps
// ErrValidation and carries validator.ValidationErrors with every failing
// field.
func Validate(r Record, limits Limits) error {
	err := validator.Apply(
		validator.OneOf("userType", string(r.UserType), []string{string(Guest), string(Host)}),
		validator.MinLen("name", r.Name, 2, "Name must be at least 2 characters"),
		validator.MaxLen("name", r.Name, limits.Name),
		validator.ValidEmail("email", r.Email, "Please enter a valid email"),
		validator.MaxLen("email", r.Email, limits.Email),
		validator.MinLen("phone", r.Phone, 10, "Please enter a valid phone number"),
		validator.MaxLen("phone", r.Phone, limits.Phone),
		validator.MinLen("location", r.Location, 2, "Please enter your location"),
		validator.MaxLen("location", r.Location, limits.Location),
		validator.MaxLen("message", r.Message, limits.Message),
	)
	if err != nil {
		return errors.Join(ErrValidation, err)
	}
	return nil
}
