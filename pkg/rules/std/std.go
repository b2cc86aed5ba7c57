// Package std provides the standard rule library: required values, phone
// numbers, email addresses, URLs and UUIDs.
package std

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/thoreinstein/rulebook/pkg/rules"
)

// ProviderID is the ID of the standard library.
const ProviderID = "std"

// Kinds provided by the standard library.
const (
	Required    rules.Kind = "required"
	PhoneNumber rules.Kind = "phone_number"
	Email       rules.Kind = "email"
	URL         rules.Kind = "url"
	UUID        rules.Kind = "uuid"
)

// PhoneDigits is the length of a valid phone number.
const PhoneDigits = 8

// Kinds returns every kind of the standard library in declaration order.
func Kinds() []rules.Kind {
	return []rules.Kind{Required, PhoneNumber, Email, URL, UUID}
}

// New returns the standard library.
func New() *rules.Library {
	return rules.NewLibrary(ProviderID, Kinds()...).Add(
		rules.CheckTypeField("ValidateRequired", ValidateRequired, Required),
		rules.Check("ValidateRequiredInt", ValidateRequiredInt, Required),
		rules.CheckField("ValidatePhoneNumber", ValidatePhoneNumber, PhoneNumber),
		rules.CheckField("ValidateEmail", ValidateEmail, Email),
		rules.CheckField("ValidateURL", ValidateURL, URL),
		rules.CheckField("ValidateUUID", ValidateUUID, UUID),
	)
}

// ValidateRequired rejects nil, blank strings, and zero structs of the
// declared type such as an unset time.Time.
func ValidateRequired(value any, declared reflect.Type, field *rules.Field) string {
	if missing(value, declared) {
		return fmt.Sprintf("%s is required", field.Label())
	}
	return ""
}

// ValidateRequiredInt rejects 0.
func ValidateRequiredInt(value int) string {
	if value == 0 {
		return "0 is not a valid value"
	}
	return ""
}

// ValidatePhoneNumber accepts integers whose decimal form has PhoneDigits characters.
func ValidatePhoneNumber(value string, field *rules.Field) string {
	n, err := strconv.Atoi(value)
	if err != nil || len(strconv.Itoa(n)) != PhoneDigits {
		return fmt.Sprintf("%s is not a valid phone number", field.Label())
	}
	return ""
}

// ValidateEmail accepts a bare RFC 5322 address.
func ValidateEmail(value string, field *rules.Field) string {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return fmt.Sprintf("%s is not a valid email address", field.Label())
	}
	return ""
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(value string, field *rules.Field) string {
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Sprintf("%s is not a valid URL", field.Label())
	}
	return ""
}

// ValidateUUID accepts any UUID form understood by github.com/google/uuid.
func ValidateUUID(value string, field *rules.Field) string {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Sprintf("%s is not a valid UUID", field.Label())
	}
	return ""
}

func missing(value any, declared reflect.Type) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	case reflect.Struct:
		// A zero struct of the declared type, such as time.Time{}, was never set.
		return rv.Type() == declared && rv.IsZero()
	}
	return false
}
