package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds the logger shared by every component. mode "dev"
// selects the development encoder, anything else is production JSON.
func NewLogger(mode string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "dev" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}
