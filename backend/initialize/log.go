package initialize

import (
	"os"
	"time"

	"user-grid/backend/global"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	// console writer to stdout, level from USERGRID_LOG_LEVEL
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	level, err := zerolog.ParseLevel(os.Getenv("USERGRID_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	global.Logger = log.Output(cw).Level(level).With().Str("svc", "users-api").Logger()
}
