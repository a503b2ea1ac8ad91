package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"empty strings", "", "", 0},
		{"empty a", "", "hello", 5},
		{"empty b", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"one char diff", "hello", "hallo", 1},
		{"completely different", "abc", "xyz", 3},
		{"insertion", "foreach", "foreeach", 1},
		{"deletion", "uppercase", "uppercse", 1},
		{"runes count once", "für", "fur", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFindSimilarStrings(t *testing.T) {
	t.Run("closest first", func(t *testing.T) {
		candidates := []string{"foreach", "if", "count", "comment", "for"}
		result := FindSimilarStrings("forech", candidates, 3)
		assert.Equal(t, "foreach", result[0])
		assert.LessOrEqual(t, len(result), 3)
	})

	t.Run("case insensitive", func(t *testing.T) {
		result := FindSimilarStrings("UPPERCASE", []string{"uppercase"}, 1)
		assert.Equal(t, []string{"uppercase"}, result)
	})

	t.Run("returns empty for no matches", func(t *testing.T) {
		result := FindSimilarStrings("transform", []string{"if", "else"}, 3)
		assert.Empty(t, result)
	})

	t.Run("no candidates", func(t *testing.T) {
		assert.Nil(t, FindSimilarStrings("x", nil, 3))
		assert.Nil(t, FindSimilarStrings("x", []string{"x"}, 0))
	})
}
