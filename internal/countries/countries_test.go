package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all, err := All()
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	ph, ok := all["PH"]
	require.True(t, ok)
	assert.Equal(t, "Philippines", ph.Name)
}

func TestGet(t *testing.T) {
	ph, err := Get("PH")
	require.NoError(t, err)
	require.NotNil(t, ph)
	assert.Equal(t, "Philippines", ph.Name)
	assert.Contains(t, ph.Phone, "63")
	assert.Equal(t, "PHL", ph.ISO["alpha-3"])
}

func TestGetUnknownCode(t *testing.T) {
	c, err := Get("ZZ")
	require.NoError(t, err)
	assert.Nil(t, c)
}
