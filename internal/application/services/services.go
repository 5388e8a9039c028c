// Package services holds the application use cases. Reads go through the cache with
// cache.Fetch; every write calls the invalidator after the repository write succeeds
// and before returning, passing the request so its declared domains are cleared.
package services

import (
	"io"

	"github.com/sirupsen/logrus"
)

func ensureLogger(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	l = logrus.New()
	l.SetOutput(io.Discard)
	return l
}
