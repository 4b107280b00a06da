package grooming

import (
	"github.com/sirupsen/logrus"
)

var (
	Log      *logrus.Logger
	NetLog   *logrus.Entry
	AdmLog   *logrus.Entry
	SweepLog *logrus.Entry
	CfgLog   *logrus.Entry
	TopoLog  *logrus.Entry
)

func init() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	base := Log.WithField("module", "grooming")
	NetLog = base.WithField("category", "NET")
	AdmLog = base.WithField("category", "ADM")
	SweepLog = base.WithField("category", "SWEEP")
	CfgLog = base.WithField("category", "CFG")
	TopoLog = base.WithField("category", "TOPO")
}

// SetLogLevel parses a level name; unknown names fall back to info
func SetLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		CfgLog.Warnf("invalid log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}
