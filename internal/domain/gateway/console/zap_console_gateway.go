package console

import (
	"io"

	"go.uber.org/zap"

	"weather-api/pkg/log"
)

type ZapConsoleGateway struct {
	logger *zap.Logger
}

var _ Gateway = (*ZapConsoleGateway)(nil)

// NewZapConsoleGateway writes each line as is to w. Write errors are not reported.
func NewZapConsoleGateway(w io.Writer) *ZapConsoleGateway {
	return &ZapConsoleGateway{logger: log.NewConsoleLogger(w)}
}

func (gateway *ZapConsoleGateway) WriteLine(line string) {
	gateway.logger.Info(line)
}
