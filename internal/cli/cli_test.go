package cli

import (
	"bytes"
	"testing"

	"github.com/treescope/treescope/pkg/pipeline"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	if c.Logger == nil {
		t.Fatal("New() returned CLI with nil logger")
	}

	c.Logger.Info("test message")
	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}

	buf.Reset()
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be suppressed at info level")
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should be logged at debug level")
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	expected := []string{"scan", "layout", "visualize", "render", "view", "serve", "cache", "completion"}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}

	if root.Version == "" {
		t.Error("root command should carry a version")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"json only", "json", []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestSetOptionDefaults(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	var opts pipeline.Options
	c.setOptionDefaults(&opts)

	if opts.YScale != pipeline.DefaultYScale {
		t.Errorf("YScale = %v, want %v", opts.YScale, pipeline.DefaultYScale)
	}
	if opts.ViewportHeight != pipeline.DefaultViewportHeight {
		t.Errorf("ViewportHeight = %v, want %v", opts.ViewportHeight, pipeline.DefaultViewportHeight)
	}
	if opts.TextSize != pipeline.DefaultTextSize {
		t.Errorf("TextSize = %v, want %v", opts.TextSize, pipeline.DefaultTextSize)
	}
}
