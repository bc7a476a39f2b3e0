package params

import (
	"github.com/fastsdcpu/fastsd-go/internal/gateway"
	"github.com/samber/lo"
)

// DimensionOptions are the discrete widths and heights the server accepts.
var DimensionOptions = []int{256, 512, 768, 1024}

const (
	fallbackSteps     = 1
	fallbackDimension = 512
)

// UserInput is the host UI's view of what the user picked. Zero values mean
// "no choice made"; the resolver substitutes server defaults.
type UserInput struct {
	Prompt         string
	InferenceSteps int
	Width          int
	Height         int
	ModelID        string
}

// Resolve merges server defaults, the model catalog, and user input into one
// generation request. Pure: no I/O, deterministic output.
func Resolve(cfg gateway.ServerConfig, models []string, in UserInput) gateway.GenerationRequest {
	d := cfg.Diffusion
	return gateway.GenerationRequest{
		Prompt:             in.Prompt,
		InferenceSteps:     resolveSteps(in.InferenceSteps, d.InferenceSteps),
		ImageWidth:         resolveDimension(in.Width, d.ImageWidth),
		ImageHeight:        resolveDimension(in.Height, d.ImageHeight),
		ModelID:            resolveModel(in.ModelID, d.ModelID, models),
		UseOpenVINO:        true,
		UseTinyAutoEncoder: false,
	}
}

func resolveSteps(user, server int) int {
	if user > 0 {
		return user
	}
	if server > 0 {
		return server
	}
	return fallbackSteps
}

func resolveDimension(user, server int) int {
	if lo.Contains(DimensionOptions, user) {
		return user
	}
	if lo.Contains(DimensionOptions, server) {
		return server
	}
	return fallbackDimension
}

func resolveModel(user, server string, models []string) string {
	if user != "" && lo.Contains(models, user) {
		return user
	}
	if server != "" && lo.Contains(models, server) {
		return server
	}
	if len(models) > 0 {
		return models[0]
	}
	return ""
}
