// Пакет token — кодирование числовых id в короткие текстовые токены.
// codec.go — чистое детерминированное base-N преобразование,
// generator.go — случайное дополнение до минимальной длины.
package token

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultAlphabet — исторический 61-символьный алфавит: цифры,
// строчные латинские буквы без 'g', заглавные латинские буквы.
// 'g' исключена, потому что зарезервирована как разделитель padding
// (DefaultDelim в generator.go).
const DefaultAlphabet = "0123456789abcdefhijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrInvalidCharacter возвращается при декодировании строки,
// содержащей символ вне алфавита
var ErrInvalidCharacter = errors.New("character is not part of the alphabet")

// ErrNegativeID возвращается при попытке закодировать отрицательный id
var ErrNegativeID = errors.New("id cannot be negative")

// Codec выполняет base-N преобразование между int64 и строкой в
// фиксированном алфавите. Алфавит передаётся явно при конструировании,
// чтобы тесты могли использовать маленький детерминированный алфавит.
type Codec struct {
	alphabet string
	index    map[byte]int64
}

// NewCodec создаёт Codec для заданного алфавита.
// Алфавит должен содержать минимум два различных символа.
func NewCodec(alphabet string) (*Codec, error) {
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("alphabet must contain at least 2 characters, got %d", len(alphabet))
	}

	index := make(map[byte]int64, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("alphabet contains duplicate character %q", c)
		}
		index[c] = int64(i)
	}

	return &Codec{
		alphabet: alphabet,
		index:    index,
	}, nil
}

// Base возвращает основание системы счисления (размер алфавита)
func (c *Codec) Base() int64 {
	return int64(len(c.alphabet))
}

// Alphabet возвращает алфавит кодека
func (c *Codec) Alphabet() string {
	return c.alphabet
}

// Contains проверяет, входит ли символ в алфавит
func (c *Codec) Contains(b byte) bool {
	_, ok := c.index[b]
	return ok
}

// Encode кодирует неотрицательный id в base-N строку.
// id 0 кодируется первым символом алфавита, а не пустой строкой.
func (c *Codec) Encode(id int64) (string, error) {
	if id < 0 {
		return "", ErrNegativeID
	}
	if id == 0 {
		return c.alphabet[:1], nil
	}

	base := c.Base()
	var b strings.Builder
	// int64 в base>=2 занимает не больше 64 символов
	var buf [64]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = c.alphabet[id%base]
		id /= base
	}
	b.Write(buf[i:])
	return b.String(), nil
}

// Decode декодирует base-N строку обратно в id.
// Возвращает ErrInvalidCharacter, если встречен символ вне алфавита.
func (c *Codec) Decode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("decode: empty string: %w", ErrInvalidCharacter)
	}

	base := c.Base()
	var result int64
	for i := 0; i < len(s); i++ {
		digit, ok := c.index[s[i]]
		if !ok {
			return 0, fmt.Errorf("decode %q at position %d: %w", s[i], i, ErrInvalidCharacter)
		}
		// защита от переполнения int64 на слишком длинном входе
		if result > (maxInt64-digit)/base {
			return 0, fmt.Errorf("decode %q: value overflows int64", s)
		}
		result = result*base + digit
	}
	return result, nil
}

const maxInt64 = int64(^uint64(0) >> 1)
