package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHostnamePod(t *testing.T) {
	t.Setenv("POD_IP", "10.0.0.7")
	assert.Equal(t, "10.0.0.7", GetHostname())
}

func TestGetHostnameDefault(t *testing.T) {
	t.Setenv("POD_IP", "")
	assert.NotEmpty(t, GetHostname())
}
