package awsipranges

import (
	"io"

	"github.com/sirupsen/logrus"
)

// log is silent unless a caller opts in through SetLogger.
var log = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// SetLogger routes the package's construction-time diagnostics (merge
// conflicts, collection build stats) to the given logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}
