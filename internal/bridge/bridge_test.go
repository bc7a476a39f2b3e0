package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastsdcpu/fastsd-go/internal/gateway"
	"github.com/fastsdcpu/fastsd-go/internal/params"
)

func paramsInput(prompt string) params.UserInput {
	return params.UserInput{Prompt: prompt}
}

type fakeClient struct {
	info      gateway.ServerInfo
	infoErr   error
	config    gateway.ServerConfig
	configErr error
	models    []string
	modelsErr error

	configCalls int
	modelsCalls int
}

func (f *fakeClient) FetchInfo(ctx context.Context) (gateway.ServerInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeClient) FetchConfig(ctx context.Context) (gateway.ServerConfig, error) {
	f.configCalls++
	return f.config, f.configErr
}

func (f *fakeClient) FetchModels(ctx context.Context) ([]string, error) {
	f.modelsCalls++
	return f.models, f.modelsErr
}

type fakeGenerator struct {
	path    string
	err     error
	lastReq gateway.GenerationRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req gateway.GenerationRequest) (string, error) {
	f.lastReq = req
	return f.path, f.err
}

func newBridge(c Client, g Generator) *Bridge {
	return &Bridge{client: c, generator: g, serverURL: "http://localhost:8000"}
}

func TestInitialize(t *testing.T) {
	fc := &fakeClient{info: gateway.ServerInfo{DeviceType: "cpu", DeviceName: "Intel Core i5"}}
	b := newBridge(fc, &fakeGenerator{})

	info, err := b.Initialize(context.Background())
	if err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if info.DeviceType != "cpu" {
		t.Errorf("info = %+v", info)
	}
}

func TestInitializeLivenessFailure(t *testing.T) {
	fc := &fakeClient{infoErr: gateway.ErrServerUnreachable}
	b := newBridge(fc, &fakeGenerator{})

	_, err := b.Initialize(context.Background())
	if !errors.Is(err, gateway.ErrServerUnreachable) {
		t.Fatalf("err = %v, want ErrServerUnreachable", err)
	}
	if !strings.Contains(err.Error(), "http://localhost:8000") {
		t.Errorf("error %q does not name the configured URL", err)
	}
	if fc.configCalls != 0 || fc.modelsCalls != 0 {
		t.Errorf("liveness failure must not trigger further gateway calls, got config=%d models=%d",
			fc.configCalls, fc.modelsCalls)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := gateway.ServerConfig{Diffusion: gateway.DiffusionDefaults{ModelID: "m2", InferenceSteps: 4}}
	fc := &fakeClient{config: cfg, models: []string{"m1", "m2"}}
	b := newBridge(fc, &fakeGenerator{})

	d := b.LoadDefaults(context.Background())
	if d.ConfigErr != nil || d.ModelsErr != nil {
		t.Fatalf("unexpected degradation: %v / %v", d.ConfigErr, d.ModelsErr)
	}
	if d.Config.Diffusion.ModelID != "m2" || len(d.Models) != 2 {
		t.Errorf("defaults = %+v", d)
	}
}

func TestLoadDefaultsDegradesIndependently(t *testing.T) {
	tests := []struct {
		name      string
		configErr error
		modelsErr error
	}{
		{"config fails, models survive", gateway.ErrSettingsUnavailable, nil},
		{"models fail, config survives", nil, gateway.ErrModelsUnavailable},
		{"both fail", gateway.ErrSettingsUnavailable, gateway.ErrModelsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{
				config:    gateway.ServerConfig{Diffusion: gateway.DiffusionDefaults{InferenceSteps: 4}},
				configErr: tt.configErr,
				models:    []string{"m1"},
				modelsErr: tt.modelsErr,
			}
			b := newBridge(fc, &fakeGenerator{})

			d := b.LoadDefaults(context.Background())

			if tt.configErr != nil {
				if !errors.Is(d.ConfigErr, tt.configErr) {
					t.Errorf("ConfigErr = %v, want %v", d.ConfigErr, tt.configErr)
				}
				if d.Config != (gateway.ServerConfig{}) {
					t.Errorf("degraded config must be empty, got %+v", d.Config)
				}
			} else if d.ConfigErr != nil {
				t.Errorf("ConfigErr = %v, want nil", d.ConfigErr)
			}

			if tt.modelsErr != nil {
				if !errors.Is(d.ModelsErr, tt.modelsErr) {
					t.Errorf("ModelsErr = %v, want %v", d.ModelsErr, tt.modelsErr)
				}
				if len(d.Models) != 0 {
					t.Errorf("degraded catalog must be empty, got %v", d.Models)
				}
			} else if d.ModelsErr != nil {
				t.Errorf("ModelsErr = %v, want nil", d.ModelsErr)
			}
		})
	}
}

func TestGenerateResolvesAgainstLoadedDefaults(t *testing.T) {
	fc := &fakeClient{
		config: gateway.ServerConfig{Diffusion: gateway.DiffusionDefaults{
			ModelID:        "m2",
			InferenceSteps: 4,
			ImageWidth:     768,
			ImageHeight:    768,
		}},
		models: []string{"m1", "m2"},
	}
	fg := &fakeGenerator{}
	b := newBridge(fc, fg)
	b.LoadDefaults(context.Background())

	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("png"), 0600); err != nil {
		t.Fatal(err)
	}
	fg.path = path

	got, err := b.Generate(context.Background(), paramsInput("a red fox"))
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}

	req := fg.lastReq
	if req.Prompt != "a red fox" || req.ModelID != "m2" || req.InferenceSteps != 4 ||
		req.ImageWidth != 768 || req.ImageHeight != 768 {
		t.Errorf("resolved request = %+v", req)
	}
}

func TestGenerateFailurePropagates(t *testing.T) {
	cause := errors.New("generation failed: no image produced")
	fg := &fakeGenerator{err: cause}
	b := newBridge(&fakeClient{}, fg)

	_, err := b.Generate(context.Background(), paramsInput("x"))
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want %v", err, cause)
	}
}

func TestGenerateArtifactMissing(t *testing.T) {
	fg := &fakeGenerator{path: filepath.Join(t.TempDir(), "vanished.png")}
	b := newBridge(&fakeClient{}, fg)

	_, err := b.Generate(context.Background(), paramsInput("x"))
	if !errors.Is(err, ErrArtifactMissing) {
		t.Errorf("err = %v, want ErrArtifactMissing", err)
	}
}
