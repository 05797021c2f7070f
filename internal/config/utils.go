package config

import "github.com/pixelcanvas/pixels/internal/yalogger"

func safetyCheck(log *yalogger.Logger) {
	if *log != nil {
		return
	}

	*log = yalogger.NewBaseLogger(nil).NewLogger()
}
