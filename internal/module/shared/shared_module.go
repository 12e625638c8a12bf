package shared

import (
	"go.uber.org/fx"
)

var NewSharedModule = fx.Options(
	fx.Provide(NewKoanfInstance),
	fx.Provide(NewCurationConfig),
	fx.Provide(NewLogger),
	fx.Provide(NewRedisClient),
	fx.Provide(NewSlack),
)
