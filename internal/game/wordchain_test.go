package game

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wordchain_backend/internal/words"
)

func startedChain(t *testing.T, opening string) (*WordChain, *recordingEmitter) {
	t.Helper()
	source := &MockSource{}
	source.On("Random", 10).Return(opening, nil).Once()
	dict := words.NewList([]string{"halo", "orange", "echo", "owl", "lemon", "eagle"})

	chain := NewWordChain(source, dict, 10)
	out := &recordingEmitter{}
	require.NoError(t, chain.BeginRound(out))
	source.AssertExpectations(t)
	return chain, out
}

func TestWordChain_OpeningWordSetsExpectedLetter(t *testing.T) {
	chain, out := startedChain(t, "Halo")

	assert.Equal(t, 'o', chain.ExpectedStart())
	assert.Equal(t, 1, chain.UsedCount())
	assert.Equal(t, []any{WordPayload{Word: "halo", Opening: true}}, out.OfType(MsgWordAccepted))
}

func TestWordChain_AcceptMovesExpectedLetter(t *testing.T) {
	chain, out := startedChain(t, "halo")

	require.NoError(t, chain.Evaluate("orange", out))
	assert.Equal(t, 'e', chain.ExpectedStart())
	assert.Equal(t, WordPayload{Word: "orange"}, out.OfType(MsgWordAccepted)[1])
}

func TestWordChain_Rejections(t *testing.T) {
	chain, out := startedChain(t, "halo")

	assert.ErrorIs(t, chain.Evaluate("apple", out), ErrInvalidWordStart)
	assert.ErrorIs(t, chain.Evaluate("", out), ErrInvalidWordStart)
	assert.ErrorIs(t, chain.Evaluate("ozone", out), ErrInvalidWord)
	assert.Equal(t, 'o', chain.ExpectedStart(), "rejections leave the chain alone")

	require.NoError(t, chain.Evaluate("orange", out))
	require.NoError(t, chain.Evaluate("echo", out))
	assert.ErrorIs(t, chain.Evaluate("ORANGE", out), ErrDuplicateWord)

	rejected := out.OfType(MsgWordRejected)
	require.Len(t, rejected, 4)
	assert.Equal(t, ReasonPayload{Reason: "Word starts with wrong letter!"}, rejected[0])
	assert.Equal(t, ReasonPayload{Reason: "Not a word!"}, rejected[2])
	assert.Equal(t, ReasonPayload{Reason: "Word already used before!"}, rejected[3])
}

func TestWordChain_OpeningWordCountsAsUsed(t *testing.T) {
	chain, out := startedChain(t, "owl")

	require.NoError(t, chain.Evaluate("lemon", out))
	assert.Equal(t, 'n', chain.ExpectedStart())
	assert.Equal(t, 2, chain.UsedCount())

	chain.expected = 'o'
	assert.ErrorIs(t, chain.Evaluate("owl", out), ErrDuplicateWord)
}

func TestWordChain_StartLetterCheckedBeforeDuplicate(t *testing.T) {
	chain, out := startedChain(t, "halo")
	require.NoError(t, chain.Evaluate("orange", out))

	// "orange" is used, but the wrong start wins.
	assert.ErrorIs(t, chain.Evaluate("orange", out), ErrInvalidWordStart)
}

func TestWordChain_EndRoundForgetsWords(t *testing.T) {
	chain, out := startedChain(t, "halo")
	require.NoError(t, chain.Evaluate("orange", out))

	chain.EndRound()
	assert.Zero(t, chain.UsedCount())
	assert.Equal(t, utf8.RuneError, chain.ExpectedStart())
}

func TestWordChain_DictionaryIsConsultedLast(t *testing.T) {
	source := &MockSource{}
	source.On("Random", 4).Return("halo", nil)
	dict := &MockDictionary{}
	dict.On("Contains", mock.Anything).Return(false)

	chain := NewWordChain(source, dict, 4)
	out := &recordingEmitter{}
	require.NoError(t, chain.BeginRound(out))

	assert.ErrorIs(t, chain.Evaluate("apple", out), ErrInvalidWordStart)
	dict.AssertNotCalled(t, "Contains", mock.Anything)

	assert.ErrorIs(t, chain.Evaluate("Olá", out), ErrInvalidWord)
	dict.AssertCalled(t, "Contains", "ola")
}
