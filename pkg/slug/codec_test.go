package slug

import (
	"testing"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerate_BasicProperties(t *testing.T) {
	codec := New(DefaultReserved, DefaultLength)

	s, err := codec.Generate()

	assert.NoError(t, err)
	assert.Len(t, s, 7, "Slug should be 7 characters long")
	assert.Regexp(t, "^[a-zA-Z0-9]+$", s, "Slug should only contain alphanumeric characters")
}

func TestGenerate_Uniqueness(t *testing.T) {
	codec := New(DefaultReserved, DefaultLength)
	slugs := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		s, err := codec.Generate()
		assert.NoError(t, err)

		assert.False(t, slugs[s], "Duplicate slug generated: %s", s)
		slugs[s] = true
	}

	assert.Equal(t, 1000, len(slugs))
}

func TestGenerate_TwoCallsDiffer(t *testing.T) {
	codec := New(DefaultReserved, DefaultLength)

	first, err1 := codec.Generate()
	second, err2 := codec.Generate()

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEqual(t, first, second)
}

func TestNew_LengthOutOfRangeFallsBackToDefault(t *testing.T) {
	for _, length := range []int{0, 5, 9, -1} {
		s, err := New(nil, length).Generate()
		assert.NoError(t, err)
		assert.Len(t, s, DefaultLength)
	}

	s, err := New(nil, 8).Generate()
	assert.NoError(t, err)
	assert.Len(t, s, 8)
}

func TestIsReserved(t *testing.T) {
	codec := New([]string{"login", " setup ", "", "dashboard", "api"}, DefaultLength)

	for _, word := range []string{"login", "setup", "dashboard", "api"} {
		assert.True(t, codec.IsReserved(word), word)
	}

	assert.False(t, codec.IsReserved("Login"), "matching is exact")
	assert.False(t, codec.IsReserved("apis"))
	assert.False(t, codec.IsReserved(""))
	assert.Len(t, codec.Reserved(), 4)
}

func TestNormalize(t *testing.T) {
	codec := New(DefaultReserved, DefaultLength)

	s, err := codec.Normalize("  my-link ")
	assert.NoError(t, err)
	assert.Equal(t, "my-link", s)

	_, err = codec.Normalize("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidSlug)

	_, err = codec.Normalize("")
	assert.ErrorIs(t, err, domain.ErrInvalidSlug)
}
