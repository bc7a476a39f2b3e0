package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fastsdcpu/fastsd-go/internal/log"
	"github.com/fastsdcpu/fastsd-go/internal/transport"
	"github.com/samber/do"
)

var (
	// ErrServerUnreachable means the liveness probe failed. Fatal to the
	// session; the host must not show any interactive surface.
	ErrServerUnreachable = errors.New("fastsd server unreachable")
	// ErrSettingsUnavailable means the config fetch failed. Callers proceed
	// with an empty config.
	ErrSettingsUnavailable = errors.New("server settings unavailable")
	// ErrModelsUnavailable means the model catalog fetch failed. Callers
	// proceed with an empty catalog.
	ErrModelsUnavailable = errors.New("model catalog unavailable")
)

// Transport is the request/response exchange the gateway is built on.
type Transport interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body []byte) (json.RawMessage, error)
}

// Gateway exposes the FastSD API as typed operations.
type Gateway struct {
	Transport Transport
}

func NewGateway(i *do.Injector) (*Gateway, error) {
	return &Gateway{Transport: do.MustInvoke[*transport.Client](i)}, nil
}

// FetchConfig returns the server's diffusion defaults.
func (g *Gateway) FetchConfig(ctx context.Context) (ServerConfig, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("gateway")
	log.Info("fetching diffusion defaults")

	raw, err := g.Transport.Get(ctx, "/api/config")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%w: %w", ErrSettingsUnavailable, err)
	}

	var cfg ServerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("%w: %w", ErrSettingsUnavailable, err)
	}
	return cfg, nil
}

// FetchInfo is the liveness probe. It must succeed before anything else.
func (g *Gateway) FetchInfo(ctx context.Context) (ServerInfo, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("gateway")
	log.Info("probing server")

	raw, err := g.Transport.Get(ctx, "/api/info")
	if err != nil {
		return ServerInfo{}, fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}

	var info ServerInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ServerInfo{}, fmt.Errorf("%w: %w", ErrServerUnreachable, err)
	}
	return info, nil
}

// FetchModels returns the server's model catalog. An empty catalog is a
// valid result; a response without the openvino_models field is not.
func (g *Gateway) FetchModels(ctx context.Context) ([]string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("gateway")
	log.Info("fetching model catalog")

	raw, err := g.Transport.Get(ctx, "/api/models")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelsUnavailable, err)
	}

	var resp struct {
		OpenVINOModels []string `json:"openvino_models"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelsUnavailable, err)
	}
	if resp.OpenVINOModels == nil {
		return nil, fmt.Errorf("%w: response missing openvino_models", ErrModelsUnavailable)
	}
	return resp.OpenVINOModels, nil
}

// SubmitGeneration posts one generation request and returns the raw result.
// Failures propagate untransformed; giving them user-facing meaning is the
// caller's job.
func (g *Gateway) SubmitGeneration(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("gateway")
	log.Info("submitting generation", "model", req.ModelID, "steps", req.InferenceSteps,
		"width", req.ImageWidth, "height", req.ImageHeight)

	body, err := json.Marshal(req)
	if err != nil {
		return GenerationResult{}, err
	}

	raw, err := g.Transport.Post(ctx, "/api/generate", body)
	if err != nil {
		return GenerationResult{}, err
	}

	var result GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return GenerationResult{}, err
	}
	return result, nil
}
