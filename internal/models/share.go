package models

import (
	"math"
	"time"
)

// NeverExpires — sentinel-значение exp для ссылок без срока жизни
const NeverExpires int64 = math.MaxInt64

// Share представляет одну сокращённую ссылку
type Share struct {
	ID        int64  `json:"id"`      // назначается БД при вставке, далее неизменен
	URL       string `json:"url"`     // destination URL редиректа
	CreatedAt int64  `json:"crt"`     // epoch seconds
	ExpiresAt int64  `json:"exp"`     // epoch seconds, NeverExpires = без срока
	Expired   bool   `json:"expired"` // явная деактивация, независимая от exp
	Token     string `json:"token"`   // пустая строка = токен ещё не сгенерирован
}

// HasToken сообщает, был ли токен уже сгенерирован и сохранён.
// Сгенерированный токен никогда не бывает пустой строкой (id 0
// кодируется первым символом алфавита).
func (s *Share) HasToken() bool {
	return s.Token != ""
}

// IsActive проверяет, можно ли отдавать редирект по этой ссылке.
// Ссылка неактивна, если выставлен флаг expired или прошло время exp.
func (s *Share) IsActive(now time.Time) bool {
	if s.Expired {
		return false
	}
	return s.ExpiresAt > now.Unix()
}
