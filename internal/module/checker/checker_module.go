package checker

import (
	"github.com/blockchain/coin-definitions/internal/module/checker/service"
	"go.uber.org/fx"
)

// register bulky of checker module
var NewCheckerModule = fx.Options(
	fx.Provide(service.NewCheckerService),
)
