package pipeline

import (
	"context"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/render"
	"github.com/treescope/treescope/pkg/tree"
	"github.com/treescope/treescope/pkg/tree/layout"
	"github.com/treescope/treescope/pkg/treeio"
)

// RenderFromLayout renders a positioned tree in every requested format.
//
// The svg and json formats reproduce the computed positions exactly. The
// dot and png formats go through Graphviz, which computes its own ranked
// layout; they preserve the structure, not the coordinates.
func RenderFromLayout(ctx context.Context, root *tree.Node, space layout.Space, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, root, space, format, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, root *tree.Node, space layout.Space, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, render.WithLabels(opts.TextSize))
		}
		return render.RenderSVG(root, space, svgOpts...), nil

	case FormatDOT:
		return []byte(render.ToDOT(root, render.DOTOptions{LeafCounts: true})), nil

	case FormatPNG:
		return render.GraphvizPNG(ctx, render.ToDOT(root, render.DOTOptions{}))

	case FormatJSON:
		return treeio.Marshal(root, space)

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}
