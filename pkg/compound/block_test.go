package compound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockAt(t *testing.T) {
	genesis := int64(1603366002)

	block, err := BlockAt(genesis, 15, time.Unix(genesis+31, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), block)

	_, err = BlockAt(genesis, 0, time.Unix(genesis, 0))
	assert.Error(t, err)

	_, err = BlockAt(genesis, 15, time.Unix(genesis-1, 0))
	assert.Error(t, err)

	block, err = BlockAt(genesis, 15, time.Unix(genesis+150, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(10), block)

	block, err = BlockAt(genesis, 15, time.Unix(genesis, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), block)
}
