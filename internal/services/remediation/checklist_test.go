package remediation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecklistInitialState(t *testing.T) {
	c := NewChecklist()
	st := c.Status()
	assert.Equal(t, 1, st.Resolved)
	assert.Equal(t, 4, st.Total)
	assert.InDelta(t, 62.0, st.Mitigation, 1e-9)
	assert.True(t, st.Items[0].Resolved)
	assert.Equal(t, "revoke", st.Items[0].ID)
}

func TestChecklistToggleAndCap(t *testing.T) {
	c := NewChecklist()
	for i := 1; i < len(Actions); i++ {
		on, err := c.Toggle(i)
		require.NoError(t, err)
		assert.True(t, on)
	}
	assert.Equal(t, 4, c.Resolved())
	assert.Equal(t, 100.0, c.Mitigation())

	on, err := c.Toggle(0)
	require.NoError(t, err)
	assert.False(t, on)
	assert.InDelta(t, 90.5, c.Mitigation(), 1e-9)

	c.Reset()
	assert.Equal(t, 1, c.Resolved())
	assert.InDelta(t, 62.0, c.Mitigation(), 1e-9)
}

func TestChecklistMitigationRecomputedOnFirstToggle(t *testing.T) {
	c := NewChecklist()
	assert.InDelta(t, 62.0, c.Mitigation(), 1e-9)

	_, err := c.Toggle(1)
	require.NoError(t, err)
	assert.InDelta(t, 81.0, c.Mitigation(), 1e-9)

	_, err = c.Toggle(1)
	require.NoError(t, err)
	assert.InDelta(t, 71.5, c.Mitigation(), 1e-9)
}

func TestChecklistToggleOutOfRange(t *testing.T) {
	c := NewChecklist()
	_, err := c.Toggle(4)
	assert.ErrorIs(t, err, ErrActionIndex)
	_, err = c.Toggle(-1)
	assert.ErrorIs(t, err, ErrActionIndex)
}
