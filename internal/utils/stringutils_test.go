package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, "orange", NormalizeString("  Orange "))
	assert.Equal(t, "cafe", NormalizeString("Café"))
	assert.Equal(t, "", NormalizeString("   "))
}

func TestFirstAndLastRune(t *testing.T) {
	assert.Equal(t, 'o', FirstRune("orange"))
	assert.Equal(t, 'e', LastRune("orange"))
	assert.Equal(t, 'ñ', LastRune("pañ"))
	assert.Equal(t, utf8.RuneError, FirstRune(""))
	assert.Equal(t, utf8.RuneError, LastRune(""))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Nil(t, SplitList(""))
}
