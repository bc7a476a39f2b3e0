package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fastsdcpu/fastsd-go/internal/gateway"
	"github.com/fastsdcpu/fastsd-go/internal/generate"
	"github.com/fastsdcpu/fastsd-go/internal/log"
	"github.com/fastsdcpu/fastsd-go/internal/params"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// ErrArtifactMissing means a generation reported success but the artifact is
// absent from the filesystem. A consumption-boundary failure, distinct from
// a generation failure.
var ErrArtifactMissing = errors.New("artifact missing")

// Client is the slice of the gateway the bridge consumes.
type Client interface {
	FetchConfig(context.Context) (gateway.ServerConfig, error)
	FetchInfo(context.Context) (gateway.ServerInfo, error)
	FetchModels(context.Context) ([]string, error)
}

// Generator produces one artifact per successful request.
type Generator interface {
	Generate(context.Context, gateway.GenerationRequest) (string, error)
}

// Defaults carries the session defaults for the host UI. A fetch that failed
// leaves its zero value in place and records the cause, so the degraded path
// stays visible instead of being silently substituted.
type Defaults struct {
	Config    gateway.ServerConfig
	Models    []string
	ConfigErr error
	ModelsErr error
}

// Bridge is the surface the host UI talks to: probe the server, load
// defaults, generate. Not safe for concurrent use; the host drives it from
// a single event loop.
type Bridge struct {
	client    Client
	generator Generator
	serverURL string
	defaults  Defaults
}

func NewBridge(i *do.Injector) (*Bridge, error) {
	return &Bridge{
		client:    do.MustInvoke[*gateway.Gateway](i),
		generator: do.MustInvoke[*generate.Orchestrator](i),
		serverURL: do.MustInvokeNamed[string](i, "server_url"),
	}, nil
}

// Initialize probes the server before any UI is shown. On failure the host
// must report the error, which names the configured URL, and terminate the
// invocation without further calls.
func (b *Bridge) Initialize(ctx context.Context) (gateway.ServerInfo, error) {
	info, err := b.client.FetchInfo(ctx)
	if err != nil {
		return gateway.ServerInfo{}, fmt.Errorf("ensure the fastsd server is running at %s: %w", b.serverURL, err)
	}
	return info, nil
}

// LoadDefaults fetches the diffusion defaults and the model catalog. The two
// fetches fail independently; either degrades to its zero value.
func (b *Bridge) LoadDefaults(ctx context.Context) Defaults {
	logger := log.FromContextOrDiscard(ctx).WithGroup("bridge")

	var d Defaults
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		cfg, err := b.client.FetchConfig(gctx)
		if err != nil {
			logger.Warn("continuing without server settings", "err", err.Error())
			d.ConfigErr = err
			return nil
		}
		d.Config = cfg
		return nil
	})
	group.Go(func() error {
		models, err := b.client.FetchModels(gctx)
		if err != nil {
			logger.Warn("continuing without model catalog", "err", err.Error())
			d.ModelsErr = err
			return nil
		}
		d.Models = models
		return nil
	})
	_ = group.Wait() // both goroutines degrade instead of erroring

	b.defaults = d
	return d
}

// Generate resolves the user's input against the loaded defaults, runs the
// submission, and verifies the artifact actually exists before handing its
// path back.
func (b *Bridge) Generate(ctx context.Context, in params.UserInput) (string, error) {
	req := params.Resolve(b.defaults.Config, b.defaults.Models, in)

	path, err := b.generator.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}
	return path, nil
}
