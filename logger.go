package main

import (
	"os"

	"github.com/cihub/seelog"
	"github.com/pkg/errors"
)

const logFormat = "%Date %Time [%LEV] %Msg%n"

// newLogger builds the process logger. A seelog XML config file takes precedence
// over the level flag.
func newLogger(level, configFile string) (seelog.LoggerInterface, error) {
	if configFile != "" {
		logger, err := seelog.LoggerFromConfigAsFile(configFile)
		if err != nil {
			return nil, errors.Wrapf(err, "parse log config %s", configFile)
		}
		return logger, nil
	}

	lvl, ok := seelog.LogLevelFromString(level)
	if !ok {
		return nil, errors.Errorf("unknown log level %q", level)
	}
	return seelog.LoggerFromWriterWithMinLevelAndFormat(os.Stdout, lvl, logFormat)
}
