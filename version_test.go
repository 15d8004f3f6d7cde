package meshrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(">= 0.1"))
	assert.NoError(t, Require("^0.3"))
	assert.Error(t, Require(">= 1.0"))
	assert.Error(t, Require("not a constraint"))
	assert.Equal(t, uint64(0), SemVer().Major())
}
