package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/fastsdcpu/fastsd-go/internal/artifact"
	"github.com/fastsdcpu/fastsd-go/internal/gateway"
	"github.com/fastsdcpu/fastsd-go/internal/log"
	"github.com/samber/do"
)

var (
	// ErrNoImage means the server reported success with an empty image list.
	ErrNoImage = errors.New("no image produced")
	// ErrCorruptPayload means the image payload was not valid base64.
	ErrCorruptPayload = errors.New("corrupt image payload")
	// ErrStopped means the orchestrator was shut down before the request ran.
	ErrStopped = errors.New("orchestrator stopped")
)

// Submitter is the slice of the gateway the orchestrator needs.
type Submitter interface {
	SubmitGeneration(context.Context, gateway.GenerationRequest) (gateway.GenerationResult, error)
}

type task struct {
	ctx  context.Context
	req  gateway.GenerationRequest
	done chan outcome
}

type outcome struct {
	result gateway.GenerationResult
	err    error
}

// Orchestrator funnels generation submissions through a single worker. The
// server serializes its compute work, so no two submissions may run
// concurrently; requests issued while one is in flight queue FIFO behind it.
type Orchestrator struct {
	submitter Submitter
	writer    artifact.Writer
	tasks     chan task
	stop      chan struct{}
	stopped   chan struct{}
	stopOnce  sync.Once
}

func New(submitter Submitter, writer artifact.Writer) *Orchestrator {
	o := &Orchestrator{
		submitter: submitter,
		writer:    writer,
		tasks:     make(chan task),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go o.worker()
	return o
}

func NewOrchestrator(i *do.Injector) (*Orchestrator, error) {
	return New(do.MustInvoke[*gateway.Gateway](i), do.MustInvoke[artifact.Writer](i)), nil
}

func (o *Orchestrator) worker() {
	defer close(o.stopped)
	for {
		select {
		case t := <-o.tasks:
			result, err := o.submitter.SubmitGeneration(t.ctx, t.req)
			t.done <- outcome{result, err}
		case <-o.stop:
			return
		}
	}
}

// Generate runs one submission through the worker, decodes the first image
// of the result, and writes it out as a uniquely named PNG. The call blocks
// until the worker gets to this request and finishes it. On any failure no
// file is created and the cause is wrapped as a generation failure.
func (o *Orchestrator) Generate(ctx context.Context, req gateway.GenerationRequest) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("orchestrator")
	log.Info("queueing generation", "model", req.ModelID)

	t := task{ctx: ctx, req: req, done: make(chan outcome, 1)}
	select {
	case o.tasks <- t:
	case <-o.stop:
		return "", fmt.Errorf("generation failed: %w", ErrStopped)
	}

	out := <-t.done
	if out.err != nil {
		return "", fmt.Errorf("generation failed: %w", out.err)
	}
	if len(out.result.Images) == 0 {
		return "", fmt.Errorf("generation failed: %w", ErrNoImage)
	}

	data, err := base64.StdEncoding.DecodeString(out.result.Images[0])
	if err != nil {
		return "", fmt.Errorf("generation failed: %w: %v", ErrCorruptPayload, err)
	}

	path, err := o.writer.Write(ctx, data)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	log.Info("artifact written", "path", path)
	return path, nil
}

// Shutdown stops the worker and waits for it to exit. An in-flight
// submission runs to completion; queued ones fail with ErrStopped. Called
// via the injector's shutdown.
func (o *Orchestrator) Shutdown() error {
	o.stopOnce.Do(func() { close(o.stop) })
	<-o.stopped
	return nil
}
