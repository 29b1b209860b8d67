package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountKey(t *testing.T) {
	// well-known go-ethereum test key
	const key = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	const addr = "0x71562b71999873DB5b286dF957af199Ec94617F7"

	tests := []struct {
		name string
		key  string
	}{
		{"plain hex", key},
		{"0x prefix", "0x" + key},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pk, got, err := parseAccountKey(tt.key)
			require.NoError(t, err)
			assert.NotNil(t, pk)
			assert.Equal(t, addr, got)
		})
	}

	_, _, err := parseAccountKey("not-a-key")
	assert.Error(t, err)
}
