package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set_Valid(t *testing.T) {
	var addr NetAddress

	require.NoError(t, addr.Set("localhost:8080"))
	assert.Equal(t, "localhost", addr.Host)
	assert.Equal(t, 8080, addr.Port)
	assert.Equal(t, "localhost:8080", addr.String())
}

func TestNetAddress_Set_IPHost(t *testing.T) {
	var addr NetAddress

	require.NoError(t, addr.Set("127.0.0.1:9090"))
	assert.Equal(t, "127.0.0.1:9090", addr.String())
}

func TestNetAddress_Set_Invalid(t *testing.T) {
	cases := []string{
		"no-port",
		"host:port:extra",
		"localhost:abc",
		"localhost:0",
		"localhost:-1",
		"not-an-ip:8080",
	}

	for _, in := range cases {
		var addr NetAddress
		assert.Error(t, addr.Set(in), "input %q", in)
	}
}

func TestNetAddress_String_ZeroValue(t *testing.T) {
	var addr NetAddress
	assert.Equal(t, "", addr.String())
}
