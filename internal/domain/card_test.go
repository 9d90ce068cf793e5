package domain

import "testing"

func TestNewCardInstance(t *testing.T) {
	t.Parallel() // Enable parallel execution
	identity := CardIdentity{ID: 7, DisplayRef: "sprites/owl", Label: "Owl"}

	card := NewCardInstance(3, identity)

	if card.InstanceID != 3 {
		t.Errorf("Expected instance ID 3, got %d", card.InstanceID)
	}
	if card.Identity != identity {
		t.Errorf("Expected identity %+v, got %+v", identity, card.Identity)
	}
	if card.Face != FaceDown {
		t.Errorf("Expected card to start face down, got %s", card.Face)
	}
	if card.Matched {
		t.Error("Expected card to start unmatched")
	}
	if !card.Revealable() {
		t.Error("Expected a fresh card to be revealable")
	}
}

func TestCardInstancePairs(t *testing.T) {
	t.Parallel()
	owl := CardIdentity{ID: 1, Label: "Owl"}
	fox := CardIdentity{ID: 2, Label: "Fox"}

	a := NewCardInstance(0, owl)
	b := NewCardInstance(1, owl)
	c := NewCardInstance(2, fox)

	if !a.Pairs(b) {
		t.Error("Expected instances sharing an identity to pair")
	}
	if a.Pairs(c) {
		t.Error("Expected instances with different identities not to pair")
	}
}

func TestCardInstanceRevealable(t *testing.T) {
	t.Parallel()
	card := NewCardInstance(0, CardIdentity{ID: 1})

	card.Face = FaceUp
	if card.Revealable() {
		t.Error("Expected face-up card not to be revealable")
	}

	card.Face = FaceDown
	card.Matched = true
	if card.Revealable() {
		t.Error("Expected matched card not to be revealable")
	}
}

func TestFaceStateString(t *testing.T) {
	t.Parallel()
	if FaceDown.String() != "face_down" {
		t.Errorf("Unexpected string %q", FaceDown.String())
	}
	if FaceUp.String() != "face_up" {
		t.Errorf("Unexpected string %q", FaceUp.String())
	}
	if FaceState(9).String() != "face_state(9)" {
		t.Errorf("Unexpected string %q", FaceState(9).String())
	}
}
