package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeKey_ToppingOrderDoesNotMatter(t *testing.T) {
	a := RawOrderLine{ItemID: "5", Toppings: []string{"egg", "cheese", "sambal"}}
	b := RawOrderLine{ItemID: "5", Toppings: []string{"sambal", "egg", "cheese"}}

	assert.Equal(t, MergeKey(a), MergeKey(b))
}

func TestMergeKey_DoesNotReorderInput(t *testing.T) {
	line := RawOrderLine{ItemID: "5", Toppings: []string{"egg", "cheese"}}
	MergeKey(line)

	assert.Equal(t, []string{"egg", "cheese"}, line.Toppings)
}

func TestMergeKey_Format(t *testing.T) {
	line := RawOrderLine{ItemID: "5", Notes: "  less salt ", Toppings: []string{"egg", "cheese"}}

	assert.Equal(t, `5|less salt|["cheese","egg"]`, MergeKey(line))
	assert.Equal(t, `5||[]`, MergeKey(RawOrderLine{ItemID: "5"}))
}

func TestMergeKey_ToppingMultiplicityMatters(t *testing.T) {
	once := RawOrderLine{ItemID: "5", Toppings: []string{"egg"}}
	twice := RawOrderLine{ItemID: "5", Toppings: []string{"egg", "egg"}}

	assert.NotEqual(t, MergeKey(once), MergeKey(twice))
}

func TestProductIdentity_Precedence(t *testing.T) {
	tests := []struct {
		name string
		line RawOrderLine
		want string
	}{
		{"inventory first", RawOrderLine{InventoryItemID: "inv", ItemID: "item", ItemRelationID: "rel"}, "inv"},
		{"item second", RawOrderLine{ItemID: "item", ItemRelationID: "rel"}, "item"},
		{"relation third", RawOrderLine{ItemRelationID: "rel"}, "rel"},
		{"unknown", RawOrderLine{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.line.ProductIdentity())
		})
	}
}
