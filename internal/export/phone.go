package export

import (
	"fmt"
	"regexp"
	"strings"
)

// PhoneValidator нормализует номер телефона к международному формату
// и проверяет его по шаблону
type PhoneValidator struct {
	countryCode string
	pattern     *regexp.Regexp
}

// NewPhoneValidator создает валидатор для кода страны и шаблона
func NewPhoneValidator(countryCode, pattern string) (*PhoneValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile phone pattern: %w", err)
	}
	return &PhoneValidator{countryCode: countryCode, pattern: re}, nil
}

// Normalize оставляет только цифры и приводит номер к виду {код страны}{номер}.
// Ведущий 0 заменяется кодом страны, номер с кодом страны не меняется.
func (v *PhoneValidator) Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, v.countryCode):
		return digits
	case strings.HasPrefix(digits, "0"):
		return v.countryCode + digits[1:]
	default:
		return v.countryCode + digits
	}
}

// Valid проверяет нормализованный номер
func (v *PhoneValidator) Valid(phone string) bool {
	return v.pattern.MatchString(phone)
}

// Check нормализует и проверяет номер
func (v *PhoneValidator) Check(raw string) (string, bool) {
	phone := v.Normalize(raw)
	return phone, v.Valid(phone)
}
