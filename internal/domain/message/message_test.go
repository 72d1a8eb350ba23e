package message

import (
	"testing"

	"github.com/google/uuid"
)

func TestOrderedPair_IsSymmetric(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	x1, y1 := OrderedPair(a, b)
	x2, y2 := OrderedPair(b, a)
	if x1 != x2 || y1 != y2 {
		t.Fatalf("expected the same ordering regardless of argument order")
	}
	if x1.String() > y1.String() {
		t.Fatalf("expected ascending order")
	}
}

func TestConversation_OtherAndHas(t *testing.T) {
	a, b := OrderedPair(uuid.New(), uuid.New())
	c := Conversation{ParticipantA: a, ParticipantB: b}
	if c.Other(a) != b || c.Other(b) != a {
		t.Fatalf("Other returned the wrong participant")
	}
	if !c.Has(a) || c.Has(uuid.New()) {
		t.Fatalf("Has returned the wrong answer")
	}
}
