package models

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/validator.v2"
)

// ErrInvalidInquiry is returned when a contact form fails validation
var ErrInvalidInquiry = errors.New("invalid inquiry")

// InquiryForm is the contact form as submitted by a visitor
type InquiryForm struct {
	Name    string `json:"name" validate:"nonzero,max=100"`
	Email   string `json:"email" validate:"nonzero,max=255"`
	Message string `json:"message" validate:"nonzero,max=1000"`
}

// Inquiry is a stored contact request
type Inquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidationError carries one message per invalid form field
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInquiry, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInquiry
}

var fieldMessages = map[string]struct {
	key      string
	required string
	tooLong  string
}{
	"Name":    {"name", "Name is required", "Name must be less than 100 characters"},
	"Email":   {"email", "Invalid email address", "Email must be less than 255 characters"},
	"Message": {"message", "Message is required", "Message must be less than 1000 characters"},
}

// Normalize trims surrounding whitespace from every field
func (f InquiryForm) Normalize() InquiryForm {
	return InquiryForm{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate normalizes the form and checks every field.
// The returned error is a *ValidationError when any field is invalid.
func (f InquiryForm) Validate() (InquiryForm, error) {
	f = f.Normalize()
	fields := make(map[string]string)

	if err := validator.Validate(f); err != nil {
		errs, ok := err.(validator.ErrorMap)
		if !ok {
			return f, fmt.Errorf("validate inquiry: %w", err)
		}
		for field, arr := range errs {
			msg, known := fieldMessages[field]
			if !known || len(arr) == 0 {
				continue
			}
			if arr[0] == validator.ErrMax {
				fields[msg.key] = msg.tooLong
			} else {
				fields[msg.key] = msg.required
			}
		}
	}

	if _, bad := fields["email"]; !bad && !validEmail(f.Email) {
		fields["email"] = fieldMessages["Email"].required
	}

	if len(fields) > 0 {
		return f, &ValidationError{Fields: fields}
	}
	return f, nil
}

// NewInquiry validates the form and stamps it with an id and creation time
func NewInquiry(form InquiryForm) (*Inquiry, error) {
	form, err := form.Validate()
	if err != nil {
		return nil, err
	}
	return &Inquiry{
		ID:        uuid.New().String(),
		Name:      form.Name,
		Email:     form.Email,
		Message:   form.Message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// validEmail accepts a bare address with no display name
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}
