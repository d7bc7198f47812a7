package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTransition(t *testing.T) {
	line := Aggregate([]RawOrderLine{
		{ID: "1", ItemID: "5", Quantity: 1, Status: StatusPending},
		{ID: "2", ItemID: "5", Quantity: 1, Status: StatusPending},
		{ID: "3", ItemID: "5", Quantity: 1, Status: StatusPending},
		{ID: "4", ItemID: "5", Quantity: 1, Status: StatusPreparing},
	}, nil).Lines()[0]

	ids, err := PlanTransition(line, StatusPending, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)

	ids, err = PlanTransition(line, StatusPending, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	ids, err = PlanTransition(line, StatusPreparing, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, ids)

	_, err = PlanTransition(line, StatusServed, 1)
	assert.ErrorIs(t, err, ErrNothingToTransition)

	_, err = PlanTransition(line, Status("ready"), 1)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPlanTransition_ReturnsCopy(t *testing.T) {
	line := Aggregate([]RawOrderLine{{ID: "1", ItemID: "5", Quantity: 1}}, nil).Lines()[0]

	ids, err := PlanTransition(line, StatusPending, 0)
	require.NoError(t, err)
	ids[0] = "changed"

	assert.Equal(t, []string{"1"}, line.SourceLineIDs.Pending)
}

func TestFindLine(t *testing.T) {
	stubIDs(t)
	lines := BuildCart(Order{Lines: []RawOrderLine{
		{ItemID: "5", Quantity: 1},
		{ID: "20", ItemID: "6", Quantity: 1},
		{ID: "21", ItemID: "60", Quantity: 1, IsTopping: true, ParentItemID: "20"},
	}})

	got, ok := FindLine(lines, "synthetic-1")
	require.True(t, ok)
	assert.Equal(t, "5||[]", got.MergeKey)

	got, ok = FindLine(lines, "21")
	require.True(t, ok)
	assert.True(t, got.IsTopping)

	_, ok = FindLine(lines, "nope")
	assert.False(t, ok)
}
