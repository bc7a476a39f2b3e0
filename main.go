package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fastsdcpu/fastsd-go/internal/bridge"
	"github.com/fastsdcpu/fastsd-go/internal/inject"
	"github.com/fastsdcpu/fastsd-go/internal/log"
	"github.com/fastsdcpu/fastsd-go/internal/params"
	"github.com/samber/do"
)

func main() {
	prompt := flag.String("prompt", "", "describe the image to generate")
	model := flag.String("model", "", "model id from the server catalog")
	steps := flag.Int("steps", 0, "inference steps (server default when 0)")
	width := flag.Int("width", 0, "image width: 256, 512, 768 or 1024")
	height := flag.Int("height", 0, "image height: 256, 512, 768 or 1024")
	flag.Parse()

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "a -prompt is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx := log.NewContext(context.Background(), log.New(os.Stderr))
	injector := inject.Setup(ctx)

	code := run(ctx, injector, params.UserInput{
		Prompt:         *prompt,
		ModelID:        *model,
		InferenceSteps: *steps,
		Width:          *width,
		Height:         *height,
	})
	_ = injector.Shutdown()
	os.Exit(code)
}

func run(ctx context.Context, injector *do.Injector, in params.UserInput) int {
	b := do.MustInvoke[*bridge.Bridge](injector)

	info, err := b.Initialize(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s : %s\n", strings.ToUpper(info.DeviceType), info.DeviceName)

	defaults := b.LoadDefaults(ctx)
	if len(defaults.Models) > 0 {
		fmt.Printf("%d models available\n", len(defaults.Models))
	}

	path, err := b.Generate(ctx, in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(path)
	return 0
}
