package params

import (
	"io/ioutil"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var minerConfig = DefaultConfig()

// MinerConfig retrieves dual miner config.
func MinerConfig() *DualMinerConfig {
	return minerConfig
}

// OverrideMinerConfig by replacing the config. The preferred pattern is to
// call MinerConfig(), change the specific parameters, and then call
// OverrideMinerConfig(c). Any subsequent calls to params.MinerConfig() will
// return this new configuration.
func OverrideMinerConfig(c *DualMinerConfig) {
	minerConfig = c
}

// Copy returns a copy of the config object.
func (c *DualMinerConfig) Copy() *DualMinerConfig {
	config, ok := deepcopy.Copy(*c).(DualMinerConfig)
	if !ok {
		config = *minerConfig
	}
	return &config
}

// LoadConfigFile reads yaml config on top of the default values and overrides the current config with it.
// Keys missing in the file keep their default values.
func LoadConfigFile(path string) error {
	yamlFile, err := ioutil.ReadFile(path) // #nosec G304
	if err != nil {
		return errors.Wrap(err, "failed to read miner config file")
	}

	conf, err := UnmarshalConfig(yamlFile)
	if err != nil {
		return err
	}

	logrus.WithField("path", path).Info("Loaded miner config file")

	OverrideMinerConfig(conf)
	return nil
}

// UnmarshalConfig parses yaml data on top of a copy of the default config.
func UnmarshalConfig(data []byte) (*DualMinerConfig, error) {
	conf := DefaultConfig().Copy()
	if err := yaml.UnmarshalStrict(data, conf); err != nil {
		return nil, errors.Wrap(err, "failed to parse miner config")
	}

	return conf, nil
}
