//go:build unix

package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysProcAttr_OwnProcessGroup(t *testing.T) {
	for _, hidden := range []bool{true, false} {
		attr := sysProcAttr(hidden)
		require.NotNil(t, attr)
		assert.True(t, attr.Setpgid)
	}
}
