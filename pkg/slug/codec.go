package slug

import (
	"strings"

	"github.com/gamassss/slinkr/internal/domain"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	DefaultLength = 7
	minLength     = 6
	maxLength     = 8
)

var DefaultReserved = []string{"login", "setup", "dashboard", "api", "healthz", "readyz"}

// Codec generates random slugs and checks candidates against the reserved
// route names. The same Codec is shared by link creation and the router.
type Codec struct {
	length   int
	reserved map[string]struct{}
}

func New(reserved []string, length int) *Codec {
	if length < minLength || length > maxLength {
		length = DefaultLength
	}

	set := make(map[string]struct{}, len(reserved))
	for _, word := range reserved {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}

	return &Codec{length: length, reserved: set}
}

// Generate returns a random alphanumeric slug. Uniqueness is not guaranteed;
// callers still have to rely on the store to reject duplicates.
func (c *Codec) Generate() (string, error) {
	return gonanoid.Generate(alphabet, c.length)
}

func (c *Codec) IsReserved(candidate string) bool {
	_, ok := c.reserved[candidate]
	return ok
}

func (c *Codec) Normalize(candidate string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", domain.ErrInvalidSlug
	}
	return candidate, nil
}

func (c *Codec) Reserved() []string {
	words := make([]string, 0, len(c.reserved))
	for word := range c.reserved {
		words = append(words, word)
	}
	return words
}
