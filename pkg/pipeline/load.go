package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/errors"
	meshio "github.com/matzehuels/meshview/pkg/io"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

// Load reads and validates the architecture description at path. The format
// follows the file extension (.json, .yaml/.yml, .toml).
func (r *Runner) Load(ctx context.Context, path string) (*manycore.System, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	sys, err := meshio.ImportSystem(path)
	cores := 0
	if sys != nil {
		cores = len(sys.Cores)
	}
	hooks.OnLoadComplete(ctx, path, cores, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded description", "path", path, "rows", sys.Rows, "columns", sys.Columns)
	return sys, nil
}

// LoadConfiguration reads the attribute configuration at path.
func (r *Runner) LoadConfiguration(ctx context.Context, path string) (*attributes.Configuration, error) {
	cfg, err := meshio.ImportConfiguration(path)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded configuration", "path", path, "keys", cfg.Len())
	return cfg, nil
}

// HashDescription returns the content hash of sys.
func HashDescription(sys *manycore.System) (string, error) {
	h, err := cache.HashJSON(sys)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash description")
	}
	return h, nil
}
