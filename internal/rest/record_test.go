package rest_test

import (
	"time"

	"stash-go/internal/object"
)

// player is the record type the rest tests are built around.
type player struct {
	object.Base
	Name  string `json:"name,omitempty"`
	Score int    `json:"score,omitempty"`
}

func (p player) ClassName() string { return "Player" }

func (p player) WithIdentity(id string, created, updated time.Time) player {
	p.Base = p.Base.WithIdentity(id, created, updated)
	return p
}

// savedPlayer returns a player that has been persisted before.
func savedPlayer(id string, created time.Time) player {
	var p player
	p.Name = "Ada"
	return p.WithIdentity(id, created, created)
}
