package globals

import (
	"context"
	"tmdb-scraper/internal/components/telemetry"
)

type keyType int

var key keyType

type Value struct {
	Tel telemetry.API
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
