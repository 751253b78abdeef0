// Package logging configures the module-wide logger, built on
// github.com/sirupsen/logrus.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger the other packages log through. Library
// code uses this *logrus.Logger rather than logrus's default package-level
// logger, so tests can substitute their own by reassigning Log.
var Log = New()

// New returns a logrus.Logger with text formatting, full timestamps, and
// output to stderr.
func New() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.Level = logrus.InfoLevel
	return l
}
