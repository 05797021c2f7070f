package yalogger

// BaseLoggerType selects which concrete logging backend NewBaseLogger constructs.
type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

// Level mirrors logrus.Level's ordering exactly so it can be cast directly
// into logrus.SetLevel without a translation table.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
)
