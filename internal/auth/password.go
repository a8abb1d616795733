// Пакет auth — аутентификация: argon2id-хеширование паролей,
// сессионные cookie и разрешение principal из запроса.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для хеширования паролей
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного хеша в байтах
	Argon2KeyLen = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// ErrPasswordMismatch возвращается, когда пароль не соответствует хешу.
// Вызывающий код обязан показывать пользователю один и тот же
// generic-ответ и для неверного пароля, и для несуществующего
// пользователя.
var ErrPasswordMismatch = errors.New("password does not match")

// ErrMalformedHash возвращается при разборе хеша не в PHC-формате
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword хеширует пароль argon2id со случайной солью и возвращает
// строку в PHC-формате:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// Plaintext-пароль нигде не сохраняется и не логируется.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		Argon2Memory,
		Argon2Time,
		Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// VerifyPassword проверяет plaintext-пароль против PHC-хеша.
// Параметры берутся из самого хеша, сравнение константное по времени.
// Возвращает ErrPasswordMismatch при несовпадении.
func VerifyPassword(password, encoded string) error {
	salt, hash, time, memory, threads, err := decodeHash(encoded)
	if err != nil {
		return err
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))

	if subtle.ConstantTimeCompare(hash, computed) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}

// decodeHash разбирает PHC-строку argon2id
func decodeHash(encoded string) (salt, hash []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad version segment", ErrMalformedHash)
	}
	if version != argon2.Version {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad params segment", ErrMalformedHash)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, fmt.Errorf("%w: bad hash encoding", ErrMalformedHash)
	}

	return salt, hash, time, memory, threads, nil
}
