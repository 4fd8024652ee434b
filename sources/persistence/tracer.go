package persistence

import (
	"fmt"

	"chatwarden/sources/tracing"
)

type gormtracer struct {
	logger *tracing.Logger
}

func (x *gormtracer) Printf(format string, args ...interface{}) {
	x.logger.D(fmt.Sprintf(format, args...), tracing.Scope, "persistence.gorm")
}
