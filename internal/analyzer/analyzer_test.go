package analyzer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamchandra/ensime/internal/protocol"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}

func newTestAnalyzer(t *testing.T) (*Analyzer, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a := New(NewInMemoryCompiler(), nil, nil, testLogger())
	go a.Run(ctx)
	return a, ctx
}

func TestReadinessGateRejectsUntilInitialCompileCompletes(t *testing.T) {
	a, ctx := newTestAnalyzer(t)

	_, err := a.ReloadAll(ctx)
	require.Error(t, err)
	abort, ok := err.(*protocol.AbortError)
	require.True(t, ok)
	require.Equal(t, protocol.ErrAnalyzerNotReady, abort.Kind)

	a.StartInitialCompile(ctx)
	waitForEvent(t, a.Events(), AnalyzerReadyEvent{})

	ok2, err := a.ReloadAll(ctx)
	require.NoError(t, err)
	require.True(t, ok2)
}

func waitForEvent(t *testing.T, events <-chan any, want any) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-events:
			if ev == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event %#v", want)
		}
	}
}

type recordingJavaCompiler struct{ files []string }

func (r *recordingJavaCompiler) ReloadFiles(ctx context.Context, files []string) error {
	r.files = append(r.files, files...)
	return nil
}

func TestReloadFilesRoutesJavaAndOtherSourcesSeparately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	jc := &recordingJavaCompiler{}
	a := New(NewInMemoryCompiler(), jc, nil, testLogger())
	go a.Run(ctx)
	a.ready.Store(true)

	ok, err := a.ReloadFiles(ctx, []string{"/tmp/does-not-exist.scala", "/tmp/does-not-exist.java"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"/tmp/does-not-exist.java"}, jc.files)
}

func TestPatchSourceAppliesEditsAsIfToOriginalText(t *testing.T) {
	c := NewInMemoryCompiler()
	c.texts["Foo.scala"] = "abcdef"
	err := c.PatchSource(context.Background(), "Foo.scala", []SourceEdit{
		{Kind: EditReplace, From: 1, To: 3, Text: "XY"},
		{Kind: EditInsert, From: 0, Text: "_"},
	})
	require.NoError(t, err)
	require.Equal(t, "_aXYdef", c.texts["Foo.scala"])
}

func TestApplyEditsOffsetsRefersToOriginalText(t *testing.T) {
	out := ApplyEdits("0123456789", []SourceEdit{
		{Kind: EditDelete, From: 0, To: 2},
		{Kind: EditInsert, From: 5, Text: "X"},
	})
	require.Equal(t, "234X56789", out)
}
