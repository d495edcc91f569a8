package store

import "math/rand"

var adjectives = []string{
	"bright",
	"calm",
	"curious",
	"eager",
	"gentle",
	"keen",
	"lively",
	"nimble",
	"quick",
	"sharp",
	"steady",
	"witty",
	"pearl",
}

var nouns = []string{
	"aurora",
	"breeze",
	"comet",
	"ember",
	"harbor",
	"meadow",
	"nebula",
	"oasis",
	"prairie",
	"stream",
	"summit",
	"voyage",
}

// friendlyName returns an "adjective noun" display name for sessions
// created without a usable name.
func friendlyName() string {
	return adjectives[rand.Intn(len(adjectives))] + " " + nouns[rand.Intn(len(nouns))]
}
