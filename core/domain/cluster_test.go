package domain

import (
	"reflect"
	"testing"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		input    string
		expected Intent
	}{
		{"informational", IntentInformational},
		{"Commercial", IntentCommercial},
		{" TRANSACTIONAL ", IntentTransactional},
		{"navigational", IntentNavigational},
		{"other", IntentOther},
		{"philosophical", IntentOther},
		{"", IntentOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseIntent(tt.input); got != tt.expected {
				t.Errorf("ParseIntent(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func testKeyword(t *testing.T, text string) Keyword {
	t.Helper()
	kw, err := NewKeyword(text, DefaultLocale)
	if err != nil {
		t.Fatalf("NewKeyword(%q): %v", text, err)
	}
	return kw
}

func TestNewCluster_SortsMembers(t *testing.T) {
	c := NewCluster([]Keyword{
		testKeyword(t, "zebra stripes"),
		testKeyword(t, "apple pie"),
		testKeyword(t, "mango chutney"),
	})

	if c.Members[0].Text != "apple pie" || c.Members[2].Text != "zebra stripes" {
		t.Errorf("members not sorted: %v", c.Members)
	}
}

func TestNewCluster_IDIndependentOfInputOrder(t *testing.T) {
	a := testKeyword(t, "running shoes")
	b := testKeyword(t, "best running shoes")
	c := testKeyword(t, "shoe reviews")

	first := NewCluster([]Keyword{a, b, c})
	second := NewCluster([]Keyword{c, a, b})

	if first.ID != second.ID {
		t.Errorf("IDs differ across input orders: %q vs %q", first.ID, second.ID)
	}
	if !reflect.DeepEqual(first.Members, second.Members) {
		t.Errorf("member order differs: %v vs %v", first.Members, second.Members)
	}
}

func TestNewCluster_IDChangesWithMembership(t *testing.T) {
	base := NewCluster([]Keyword{testKeyword(t, "a"), testKeyword(t, "b")})
	grown := NewCluster([]Keyword{testKeyword(t, "a"), testKeyword(t, "b"), testKeyword(t, "c")})

	if base.ID == grown.ID {
		t.Error("different member sets should produce different IDs")
	}
	if len(base.ID) != 12 {
		t.Errorf("ID length = %d, want 12", len(base.ID))
	}
}

func TestNewCluster_DoesNotMutateInput(t *testing.T) {
	members := []Keyword{testKeyword(t, "zebra"), testKeyword(t, "apple")}
	NewCluster(members)

	if members[0].Text != "zebra" {
		t.Error("input slice was reordered")
	}
}

func TestCluster_SizeAndContains(t *testing.T) {
	a := testKeyword(t, "a")
	b := testKeyword(t, "b")
	c := NewCluster([]Keyword{a, b})

	if c.Size() != 2 {
		t.Errorf("Size() = %d", c.Size())
	}
	if !c.Contains(a) {
		t.Error("Contains should find a member")
	}
	if c.Contains(testKeyword(t, "missing")) {
		t.Error("Contains should reject a non-member")
	}
}
