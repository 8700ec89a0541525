package pipeline

import (
	"context"
	"os"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/tree"
)

// Scan walks the filesystem rooted at opts.Root and builds the tree.
//
// The root itself must be a directory; scanning a plain file is rejected
// because the resulting single-node picture carries no information.
// Entries below the root may be any mix of files, directories, and
// symlinks. Unreadable entries are logged and skipped, so a partial tree
// on restricted filesystems is a success, not an error.
func Scan(ctx context.Context, opts Options) (*tree.Node, error) {
	if err := opts.ValidateForScan(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoot, err, "stat %s", opts.Root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidRoot, "%s is not a directory", opts.Root)
	}

	return tree.Build(opts.Root, tree.WithLogger(opts.Logger))
}
