package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"unicode/utf8"

	"wordchain_backend/internal/utils"
)

//go:embed english.txt
var defaultList string

var ErrNoWords = errors.New("no word matches the requested length")

// Source hands out opening words for a round.
type Source interface {
	Random(maxLen int) (string, error)
}

// Dictionary decides whether a submitted word exists.
type Dictionary interface {
	Contains(word string) bool
}

// List is an in-memory word list usable both as Source and Dictionary.
type List struct {
	words []string
	index map[string]struct{}
}

// NewList builds a List from raw words. Words are normalized and deduplicated.
func NewList(raw []string) *List {
	l := &List{index: make(map[string]struct{}, len(raw))}
	for _, w := range raw {
		w = utils.NormalizeString(w)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := l.index[w]; dup {
			continue
		}
		l.index[w] = struct{}{}
		l.words = append(l.words, w)
	}
	return l
}

// Default returns the embedded English list. It holds a few thousand common
// words; deployments should load a full dictionary with Load.
func Default() *List {
	l, _ := Read(strings.NewReader(defaultList))
	return l
}

// Load reads a word list file where each line is a word.
func Load(path string) (*List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open word list %s: %w", path, err)
	}
	defer file.Close()

	l, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("error while reading word list %s: %w", path, err)
	}
	return l, nil
}

// Read builds a List from newline separated words.
func Read(r io.Reader) (*List, error) {
	var raw []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewList(raw), nil
}

func (l *List) Len() int {
	return len(l.words)
}

func (l *List) Contains(word string) bool {
	_, ok := l.index[utils.NormalizeString(word)]
	return ok
}

// Random picks a word of at most maxLen letters. maxLen <= 0 means no bound.
func (l *List) Random(maxLen int) (string, error) {
	candidates := l.words
	if maxLen > 0 {
		candidates = make([]string, 0, len(l.words))
		for _, w := range l.words {
			if utf8.RuneCountInString(w) <= maxLen {
				candidates = append(candidates, w)
			}
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoWords
	}
	return candidates[rand.Intn(len(candidates))], nil
}
