package rendergraph_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/backend"
	"github.com/gogpu/rendergraph/backend/recording"
	"github.com/gogpu/rendergraph/diagnostic"
	"github.com/gogpu/rendergraph/graph"
	"github.com/gogpu/rendergraph/render"
)

// syncBuffer is a bytes.Buffer safe for concurrent writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLogs installs a text logger at level for the rest of the test.
func captureLogs(t *testing.T, level slog.Level) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	rendergraph.SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { rendergraph.SetLogger(nil) })
	return buf
}

type colorView struct{}

func (colorView) Label() string                  { return "main" }
func (colorView) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func mainPass() *render.RenderPassDescriptor {
	return &render.RenderPassDescriptor{
		Label: "main_transparent_pass_2d",
		ColorAttachments: []render.ColorAttachment{{
			View:    colorView{},
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	}
}

func TestLogger_SilentByDefault(t *testing.T) {
	l := rendergraph.Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}

	captureLogs(t, slog.LevelDebug)
	rendergraph.SetLogger(nil)
	if rendergraph.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the disabled logger")
	}
}

func TestLogger_CallSites(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		run   func(t *testing.T)
		want  []string
		skip  string
	}{
		{
			name:  "capability detection",
			level: slog.LevelInfo,
			run: func(*testing.T) {
				render.DetectCapabilities(render.AdapterInfo{API: render.APIGL, Web: true})
			},
			want: []string{"level=INFO", "backend capabilities detected", "resets_viewport=false"},
		},
		{
			name:  "tracked pass opened",
			level: slog.LevelDebug,
			run: func(t *testing.T) {
				rctx := graph.NewRenderContext(recording.NewEncoder("view0"), render.DefaultCapabilities())
				pass, err := rctx.BeginTrackedRenderPass(mainPass())
				if err != nil {
					t.Fatal(err)
				}
				_ = pass.End()
			},
			want: []string{"level=DEBUG", "graph: pass opened", "encoder=view0", "pass=main_transparent_pass_2d"},
		},
		{
			name:  "debug hidden at info",
			level: slog.LevelInfo,
			run: func(t *testing.T) {
				rctx := graph.NewRenderContext(recording.NewEncoder("view0"), render.DefaultCapabilities())
				pass, err := rctx.BeginTrackedRenderPass(mainPass())
				if err != nil {
					t.Fatal(err)
				}
				_ = pass.End()
			},
			skip: "graph: pass opened",
		},
		{
			name:  "timestamps unsupported",
			level: slog.LevelWarn,
			run: func(t *testing.T) {
				enc := recording.NewEncoder("view0", recording.WithoutTimestamps())
				raw, err := enc.BeginRenderPass(mainPass())
				if err != nil {
					t.Fatal(err)
				}
				pass := render.NewTrackedRenderPass(raw)
				rec := diagnostic.NewTimestampRecorder(&render.QuerySet{Count: 2})
				rec.PassSpan(pass, "main_transparent_pass_2d").End(pass)
				_ = pass.End()
			},
			want: []string{"level=WARN", "timestamp queries unsupported"},
		},
		{
			name:  "backend registered",
			level: slog.LevelDebug,
			run: func(t *testing.T) {
				backend.Register("logger_test", func(label string, _ render.BackendCapabilities) (render.CommandEncoder, error) {
					return recording.NewEncoder(label), nil
				})
				t.Cleanup(func() { backend.Unregister("logger_test") })
			},
			want: []string{"backend: registered", "name=logger_test"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t, tt.level)
			tt.run(t)
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("log missing %q:\n%s", w, got)
				}
			}
			if tt.skip != "" && strings.Contains(got, tt.skip) {
				t.Errorf("log unexpectedly contains %q:\n%s", tt.skip, got)
			}
		})
	}
}

func TestLogger_ConcurrentSetLogger(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			render.DetectCapabilities(render.AdapterInfo{API: render.APIVulkan})
		}()
		go func() {
			defer wg.Done()
			rendergraph.SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
		}()
	}
	wg.Wait()
	if !strings.Contains(buf.String(), "backend capabilities detected") {
		t.Error("no capability records written while swapping loggers")
	}
}
