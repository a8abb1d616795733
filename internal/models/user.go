package models

// User представляет пользователя в системе
type User struct {
	ID           int64  `json:"id"`       // назначается БД при вставке
	Username     string `json:"username"` // уникальный username
	PasswordHash string `json:"-"`        // argon2id хеш в PHC-формате, наружу не отдаётся
	IsAdmin      bool   `json:"is_admin"` // доступ к привилегированным операциям
}
