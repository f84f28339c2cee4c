package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalConfig_Defaults(t *testing.T) {
	conf, err := UnmarshalConfig([]byte("POLICY: observational\n"))
	require.NoError(t, err)

	assert.Equal(t, "observational", conf.Policy)
	assert.Equal(t, DefaultConfig().ComparedFields, conf.ComparedFields)
	assert.Equal(t, DefaultConfig().DevCoinbase, conf.DevCoinbase)

	// defaults are not touched
	assert.Equal(t, "strict", DefaultConfig().Policy)
}

func TestUnmarshalConfig_Override(t *testing.T) {
	data := []byte(`
COMPARED_FIELDS: [stateRoot, warnings]
DISPATCH: concurrent
DEV_GAS_LIMIT: 42000
DEV_ALLOC:
  "0x00000000000000000000000000000000000a11ce": 1000
`)

	conf, err := UnmarshalConfig(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"stateRoot", "warnings"}, conf.ComparedFields)
	assert.Equal(t, "concurrent", conf.Dispatch)
	assert.Equal(t, uint64(42000), conf.DevGasLimit)
	assert.Equal(t, uint64(1000), conf.DevAlloc["0x00000000000000000000000000000000000a11ce"])
	assert.Len(t, DefaultConfig().ComparedFields, 8)
}

func TestUnmarshalConfig_UnknownKey(t *testing.T) {
	_, err := UnmarshalConfig([]byte("STRICTNESS: high\n"))
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	defer UseDefaultConfig()

	path := filepath.Join(t.TempDir(), "miner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("POLICY: observational\n"), 0600))
	require.NoError(t, LoadConfigFile(path))

	assert.Equal(t, "observational", MinerConfig().Policy)

	assert.Error(t, LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestCopy(t *testing.T) {
	conf := DefaultConfig().Copy()
	conf.ComparedFields[0] = "hash"

	assert.Equal(t, "number", DefaultConfig().ComparedFields[0])
}
