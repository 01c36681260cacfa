package apirecordsv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/calorietracker/service"
)

const ContextServicerKey = "5d3c0b2e-9a7f-11ef-8c1d-7f3b2c4e9a10"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	s, _ := ctx.Value(ContextServicerKey).(service.Servicer)
	return s
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}
