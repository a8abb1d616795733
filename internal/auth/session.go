package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName — имя HttpOnly cookie с подписанной сессией
const SessionCookieName = "shortshare_session"

// DefaultSessionTTL — срок жизни сессии
const DefaultSessionTTL = 24 * time.Hour

// SessionClaims представляет JWT claims сессионного cookie.
// Сессия хранит только identity (username); права пользователя
// читаются из БД на каждом привилегированном запросе.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sessions подписывает и проверяет сессионные cookie (HS256 JWT)
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions создаёт менеджер сессий.
// secret должен быть криптографически случайной строкой.
func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{secret: []byte(secret), ttl: ttl}, nil
}

// Issue подписывает сессию для username и возвращает готовый cookie
func (s *Sessions) Issue(username string) (*http.Cookie, error) {
	now := time.Now()

	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "shortshare",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear возвращает cookie, стирающий сессию в браузере
func (s *Sessions) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Validate проверяет подпись и срок действия сессионного токена и
// возвращает username
func (s *Sessions) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC — защита от подмены алгоритма
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", fmt.Errorf("invalid session token")
	}

	return claims.Username, nil
}
