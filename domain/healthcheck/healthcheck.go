package healthcheck

import (
	"github.com/shelterseek/goapi/base/ctx"
)

// HealthCheckRepo probes every provisioned store handle.
type HealthCheckRepo interface {
	PingDB(c ctx.Ctx) error
}

type HealthCheckUsecase interface {
	Check(c ctx.Ctx) error
}
