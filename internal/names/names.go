package names

import (
	_ "embed"
	"math/rand"
	"strings"
)

var (
	//go:embed animals.txt
	animalList string
	//go:embed countries.txt
	countryList string
)

// Generator picks random player and room names from preloaded lists.
type Generator struct {
	players []string
	rooms   []string
}

func New(players, rooms []string) *Generator {
	return &Generator{players: players, rooms: rooms}
}

// Default uses the embedded animal (players) and country (rooms) lists.
func Default() *Generator {
	return New(splitLines(animalList), splitLines(countryList))
}

func (g *Generator) Player() string {
	return pick(g.players, "Player")
}

func (g *Generator) Room() string {
	return pick(g.rooms, "Room")
}

func pick(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[rand.Intn(len(list))]
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
