// Package popow wires the NiPoPoW core's components (level calculator,
// interlink codec, prover, scorer, validator, proof cache) into the
// application's fx dependency graph, following the reference node's
// ModuleInput/ModuleOutput/ProvideServices/Module() convention.
package popow

import (
	"context"

	"go.uber.org/fx"

	"github.com/gtklocker/ergo/internal/core/popow/cache"
	popowconfig "github.com/gtklocker/ergo/internal/config/popow"
	"github.com/gtklocker/ergo/internal/core/popow/historyreader"
	"github.com/gtklocker/ergo/internal/core/popow/interlink"
	"github.com/gtklocker/ergo/internal/core/popow/level"
	"github.com/gtklocker/ergo/internal/core/popow/prove"
	"github.com/gtklocker/ergo/internal/core/popow/score"
	"github.com/gtklocker/ergo/internal/core/popow/types"
	"github.com/gtklocker/ergo/internal/core/popow/validate"
	"github.com/gtklocker/ergo/pkg/interfaces/infrastructure/log"
)

// ModuleInput collects the popow module's dependencies. Everything beyond
// the config and logger is provided by the node's block/header storage
// and consensus layers, which this core treats as opaque collaborators.
type ModuleInput struct {
	fx.In

	Logger log.Logger `optional:"true"`

	Config *popowconfig.Config `optional:"true"`

	// HeaderCodec decodes the raw header bytes this core's history
	// reader persists; supplied by the node's header/block module.
	HeaderCodec types.HeaderCodec `optional:"true"`

	// PowHits computes a header's proof-of-work hit value; supplied by
	// the node's consensus/PoW module.
	PowHits types.PowHitProvider `optional:"true"`

	// HistoryReader is the synchronous header/extension view the prover
	// and cache read from; supplied by the node's storage layer (the
	// badger-backed reference adapter in internal/historystore/badger,
	// or any other implementation of historyreader.Reader).
	HistoryReader historyreader.Reader `optional:"true"`
}

// ModuleOutput is the set of services this module exports for the rest
// of the application to consume.
type ModuleOutput struct {
	fx.Out

	LevelCalculator *level.Calculator `name:"popow_level_calculator"`
	InterlinkCodec  *interlink.Codec  `name:"popow_interlink_codec"`
	Prover          *prove.Prover     `name:"popow_prover"`
	Scorer          *score.Scorer     `name:"popow_scorer"`
	Validator       *validate.Validator `name:"popow_validator"`

	// Cache is only populated (non-nil) when a HistoryReader was
	// supplied; proof caching has no meaning without a history to read
	// the current tip from.
	Cache *cache.Cache `name:"popow_cache" optional:"true"`
}

// ProvideServices constructs the popow core's services from ModuleInput.
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := input.Config
	if cfg == nil {
		cfg = popowconfig.New(nil)
	}
	if err := cfg.Validate(); err != nil {
		return ModuleOutput{}, err
	}

	levelCalc := level.NewCalculator(input.PowHits, nil)
	interlinkCodec := interlink.NewCodec(cfg.InterlinkPrefixByte())
	validator := validate.NewValidator()
	scorer := score.NewScorer(levelCalc, validator)
	prover := prove.NewProver(levelCalc)

	out := ModuleOutput{
		LevelCalculator: levelCalc,
		InterlinkCodec:  interlinkCodec,
		Prover:          prover,
		Scorer:          scorer,
		Validator:       validator,
	}

	if input.HistoryReader != nil {
		out.Cache = cache.NewCache(input.HistoryReader, prover)
	}

	return out, nil
}

// Module returns the fx module definition for the popow core.
func Module() fx.Option {
	return fx.Module("popow",
		fx.Provide(
			ProvideServices,
		),

		fx.Invoke(
			func(lc fx.Lifecycle, logger log.Logger) {
				var moduleLogger log.Logger
				if logger != nil {
					moduleLogger = logger.With("module", "popow")
				}

				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						if moduleLogger != nil {
							moduleLogger.Info("popow module started")
						}
						return nil
					},
					OnStop: func(ctx context.Context) error {
						if moduleLogger != nil {
							moduleLogger.Info("popow module stopped")
						}
						return nil
					},
				})
			},
		),

		fx.Invoke(
			func(logger log.Logger) {
				if logger != nil {
					logger.With("module", "popow").Info("popow module loaded (prover, scorer, validator, cache)")
				}
			},
		),
	)
}

// Version identifies this module for diagnostics and compatibility checks.
const Version = "1.0.0"

// Name is the fx module name.
const Name = "popow"
