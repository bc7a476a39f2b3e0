package inject

import (
	"context"
	"fmt"

	"github.com/fastsdcpu/fastsd-go/internal/artifact"
	"github.com/fastsdcpu/fastsd-go/internal/bridge"
	"github.com/fastsdcpu/fastsd-go/internal/config"
	"github.com/fastsdcpu/fastsd-go/internal/gateway"
	"github.com/fastsdcpu/fastsd-go/internal/generate"
	"github.com/fastsdcpu/fastsd-go/internal/log"
	"github.com/fastsdcpu/fastsd-go/internal/transport"
	"github.com/samber/do"
)

func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Info(fmt.Sprintf(format, args...))
		},
	})

	do.Provide[*config.Config](injector, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})
	do.ProvideNamed[string](injector, "server_url", func(i *do.Injector) (string, error) {
		return do.MustInvoke[*config.Config](i).ServerURL, nil
	})
	do.ProvideNamed[string](injector, "output_dir", func(i *do.Injector) (string, error) {
		return do.MustInvoke[*config.Config](i).OutputDir, nil
	})

	do.Provide[*transport.Client](injector, func(i *do.Injector) (*transport.Client, error) {
		return transport.New(do.MustInvokeNamed[string](i, "server_url"))
	})
	do.Provide[*gateway.Gateway](injector, gateway.NewGateway)
	do.Provide[artifact.Writer](injector, artifact.NewTempWriter)
	do.Provide[*generate.Orchestrator](injector, generate.NewOrchestrator)
	do.Provide[*bridge.Bridge](injector, bridge.NewBridge)

	return injector
}
