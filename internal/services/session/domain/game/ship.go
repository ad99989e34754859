package game

import (
	"encoding/json"

	"github.com/louisbranch/broadside/internal/services/session/domain/board"
)

// ShipsUnplaced is the sentinel ship-list value for a side that has not
// submitted a placement yet.
const ShipsUnplaced = "[]"

// Orientation is the axis a ship extends along from its head.
type Orientation string

const (
	// Horizontal extends along increasing y.
	Horizontal Orientation = "Horizontal"
	// Vertical extends along increasing x.
	Vertical Orientation = "Vertical"
)

// Ship is one placed ship. Field names match the engine's wire format.
type Ship struct {
	HeadX       int         `json:"headX"`
	HeadY       int         `json:"headY"`
	Size        int         `json:"size"`
	Orientation Orientation `json:"orientation"`
}

// DecodeShips parses a ship-list JSON payload.
func DecodeShips(encoded string) ([]Ship, error) {
	var ships []Ship
	if err := json.Unmarshal([]byte(encoded), &ships); err != nil {
		return nil, err
	}
	return ships, nil
}

// EncodeShips renders ships as the wire ship-list JSON.
func EncodeShips(ships []Ship) (string, error) {
	if len(ships) == 0 {
		return ShipsUnplaced, nil
	}
	encoded, err := json.Marshal(ships)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// RemainingSizes returns the sizes of ships whose head cell has not been
// sunk on the given grid. The AI uses this to bias its search toward
// fleet segments still in play.
func RemainingSizes(grid board.Grid, ships []Ship) []int {
	var sizes []int
	for _, ship := range ships {
		if grid.At(ship.HeadX, ship.HeadY) != board.CellSunk {
			sizes = append(sizes, ship.Size)
		}
	}
	return sizes
}
