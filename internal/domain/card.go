package domain

import "fmt"

// FaceState is the visible side of a placed card.
type FaceState int

// Possible face states.
const (
	FaceDown FaceState = iota
	FaceUp
)

// String returns the string representation of a FaceState.
func (f FaceState) String() string {
	switch f {
	case FaceDown:
		return "face_down"
	case FaceUp:
		return "face_up"
	default:
		return fmt.Sprintf("face_state(%d)", int(f))
	}
}

// CardIdentity is the immutable pairing identity shared by exactly two
// card instances in a round. DisplayRef is an opaque handle the presenter
// resolves to front-face art.
type CardIdentity struct {
	ID         int    `json:"id" mapstructure:"id"`
	DisplayRef string `json:"display_ref" mapstructure:"display_ref"`
	Label      string `json:"label" mapstructure:"label"`
}

// CardInstance is one placed card in the grid with its own face and match
// state. InstanceID is unique within a round and equals the grid slot.
type CardInstance struct {
	InstanceID int          `json:"instance_id"`
	Identity   CardIdentity `json:"identity"`
	Face       FaceState    `json:"face"`
	Matched    bool         `json:"matched"`
}

// NewCardInstance creates a face-down, unmatched instance of identity.
func NewCardInstance(instanceID int, identity CardIdentity) CardInstance {
	return CardInstance{
		InstanceID: instanceID,
		Identity:   identity,
		Face:       FaceDown,
		Matched:    false,
	}
}

// Pairs reports whether c and other share the same identity.
func (c CardInstance) Pairs(other CardInstance) bool {
	return c.Identity.ID == other.Identity.ID
}

// Revealable reports whether the card may accept a reveal request.
func (c CardInstance) Revealable() bool {
	return !c.Matched && c.Face == FaceDown
}
