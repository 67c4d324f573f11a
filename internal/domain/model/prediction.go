// Package model contains the persisted records passed between layers.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/okian/pennant/internal/domain/catalog"
)

// ErrInvalidKey is returned when a record key is incomplete.
var ErrInvalidKey = errors.New("invalid prediction key")

// Key identifies one standings prediction: at most one record exists per key.
type Key struct {
	Owner  string         `json:"owner"`
	Season int            `json:"season"`
	League catalog.League `json:"league"`
}

// Validate reports whether every part of the key is set.
func (k Key) Validate() error {
	switch {
	case strings.TrimSpace(k.Owner) == "":
		return errors.Join(ErrInvalidKey, errors.New("missing owner"))
	case k.Season <= 0:
		return errors.Join(ErrInvalidKey, errors.New("missing season"))
	case k.League == "":
		return errors.Join(ErrInvalidKey, errors.New("missing league"))
	}
	return nil
}

// Prediction is a submitted standings order. Rankings[i] is the id predicted
// to finish at rank i+1.
type Prediction struct {
	Key
	Rankings  []string  `json:"rankings"`
	WrittenAt time.Time `json:"written_at"`
}

// TitlePick is one predicted award winner, unique per
// (owner, season, league, title).
type TitlePick struct {
	Owner     string         `json:"owner"`
	Season    int            `json:"season"`
	League    catalog.League `json:"league"`
	Title     string         `json:"title"`
	Player    string         `json:"player"`
	WrittenAt time.Time      `json:"written_at"`
}
