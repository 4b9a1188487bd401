package uart

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnsupported(t *testing.T) {
	t.Parallel()

	_, err := Open("/dev/null", 12345)
	require.Error(t, err)
	assert.True(t, errors.IsNotSupported(err))
}
