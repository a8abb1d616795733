package token

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// DefaultMinLength — минимальная длина публичного токена в символах.
	// Короткие id дополняются случайными символами до этой длины,
	// чтобы длина токена не выдавала порядковый номер записи.
	DefaultMinLength = 6

	// DefaultDelim отделяет "настоящие" base-N цифры от случайного
	// padding. Не входит в DefaultAlphabet.
	DefaultDelim = 'g'
)

// Generator строит публичные токены поверх Codec: детерминированная
// часть (Encode от id) плюс случайное дополнение до минимальной длины.
type Generator struct {
	codec     *Codec
	rnd       *rand.Rand
	minLength int
	delim     byte
}

// NewGenerator создаёт Generator.
// delim не должен входить в алфавит кодека — иначе padding невозможно
// отличить от закодированных цифр. rnd может быть nil, тогда
// используется общий источник math/rand/v2; тесты передают свой
// источник с фиксированным seed.
func NewGenerator(codec *Codec, minLength int, delim byte, rnd *rand.Rand) (*Generator, error) {
	if minLength < 1 {
		return nil, fmt.Errorf("min length must be positive, got %d", minLength)
	}
	if codec.Contains(delim) {
		return nil, fmt.Errorf("delimiter %q is part of the alphabet", delim)
	}
	return &Generator{
		codec:     codec,
		minLength: minLength,
		delim:     delim,
		rnd:       rnd,
	}, nil
}

// Generate строит токен для id. Если закодированный id уже не короче
// минимальной длины, возвращается как есть. Иначе добавляется
// разделитель и случайные символы алфавита до минимальной длины.
// Повторные вызовы для одного id могут давать разные токены
// (различается только padding).
func (g *Generator) Generate(id int64) (string, error) {
	core, err := g.codec.Encode(id)
	if err != nil {
		return "", fmt.Errorf("encode id %d: %w", id, err)
	}
	if len(core) >= g.minLength {
		return core, nil
	}

	pad := g.minLength - len(core)
	var b strings.Builder
	b.Grow(len(core) + 1 + pad)
	b.WriteString(core)
	b.WriteByte(g.delim)
	alphabet := g.codec.Alphabet()
	for i := 0; i < pad; i++ {
		b.WriteByte(alphabet[g.intN(len(alphabet))])
	}
	return b.String(), nil
}

// IDFromToken восстанавливает id из токена: берётся часть до первого
// разделителя и декодируется кодеком. Padding справа от разделителя
// игнорируется.
func (g *Generator) IDFromToken(token string) (int64, error) {
	core := token
	if i := strings.IndexByte(token, g.delim); i >= 0 {
		core = token[:i]
	}
	id, err := g.codec.Decode(core)
	if err != nil {
		return 0, fmt.Errorf("token %q: %w", token, err)
	}
	return id, nil
}

func (g *Generator) intN(n int) int {
	if g.rnd != nil {
		return g.rnd.IntN(n)
	}
	return rand.IntN(n)
}
