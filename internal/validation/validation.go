package validation

import (
	"fmt"
	"net/url"
	"regexp"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32

	// MaxURLLen — потолок длины destination URL
	MaxURLLen = 2048
)

// ValidateUsername проверяет, что username соответствует требованиям
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
// Минимум 12 символов
func ValidatePassword(password string) error {
	const minPasswordLen = 12

	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	return nil
}

// ValidateDestinationURL проверяет destination URL сокращаемой ссылки.
// Принимаются только абсолютные http/https URL с хостом — редирект на
// относительный путь или экзотическую схему не имеет смысла.
func ValidateDestinationURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url cannot be empty")
	}

	if len(raw) > MaxURLLen {
		return fmt.Errorf("url must not exceed %d characters", MaxURLLen)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url is not parseable: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}

	return nil
}
