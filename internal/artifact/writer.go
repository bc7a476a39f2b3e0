package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/samber/do"
)

// Writer materializes decoded image bytes as a file the host can load.
// Ownership of the file transfers to the caller; cleanup is theirs.
type Writer interface {
	Write(ctx context.Context, data []byte) (string, error)
}

// TempWriter writes each artifact to a uniquely named PNG in Dir.
type TempWriter struct {
	Dir string
}

func NewTempWriter(i *do.Injector) (Writer, error) {
	return &TempWriter{Dir: do.MustInvokeNamed[string](i, "output_dir")}, nil
}

func (w *TempWriter) Write(ctx context.Context, data []byte) (string, error) {
	name := filepath.Join(w.Dir, "fastsd-"+uuid.NewString()+".png")

	log := logr.FromContextOrDiscard(ctx).WithName("artifact")
	log.Info("writing", "file", name)

	if err := os.WriteFile(name, data, 0600); err != nil {
		_ = os.Remove(name) // leave nothing half-written behind
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return name, nil
}
