package project

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamchandra/ensime/internal/analyzer"
	"github.com/adamchandra/ensime/internal/debug"
	"github.com/adamchandra/ensime/internal/indexer"
	"github.com/adamchandra/ensime/internal/protocol"
	"github.com/adamchandra/ensime/internal/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires a real Analyzer/Indexer/Debug triad to one end of an
// in-process pipe and returns the client's end of the connection.
func newTestRouter(t *testing.T) net.Conn {
	t.Helper()

	ix, err := indexer.New(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })

	mc := analyzer.NewInMemoryCompiler()
	an := analyzer.New(mc, mc, ix, testLogger())
	dbg := debug.New(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go ix.Run(ctx)
	go an.Run(ctx)
	go dbg.Run(ctx)
	an.StartInitialCompile(ctx)

	// wait for the analyzer's readiness gate to flip so RPCs that route
	// through it don't all come back as not-ready.
	waitForReady(t, an)

	serverConn, clientConn := net.Pipe()
	r := New(serverConn, an, ix, dbg, nil, testLogger())
	go r.Run(ctx)
	t.Cleanup(func() { serverConn.Close(); clientConn.Close() })

	return clientConn
}

func waitForReady(t *testing.T, an *analyzer.Analyzer) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-an.Events():
			if _, ok := ev.(analyzer.AnalyzerReadyEvent); ok {
				return
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatal("analyzer never became ready")
}

func sendRequest(t *testing.T, conn net.Conn, form wire.Value, callID int64) wire.Value {
	t.Helper()
	req := wire.List(wire.Keyword("swank-rpc"), form, wire.Int(callID))
	require.NoError(t, wire.WriteFrame(conn, req))
	reply, err := wire.ReadFrame(conn)
	require.NoError(t, err)
	return reply
}

func TestDispatchUnrecognizedOperationAborts(t *testing.T) {
	conn := newTestRouter(t)
	reply := sendRequest(t, conn, wire.List(wire.Str("not-a-real-op")), 1)

	list, ok := reply.AsList()
	require.True(t, ok)
	require.Len(t, list, 3)
	status, ok := list[1].AsList()
	require.True(t, ok)
	tag, _ := status[0].AsString()
	require.Equal(t, "abort", tag)
	kind, _ := status[1].AsInt()
	require.Equal(t, int64(protocol.ErrUnrecognizedRPC), kind)
}

func TestDispatchReloadAllRoutesToAnalyzerAndReturnsOK(t *testing.T) {
	conn := newTestRouter(t)
	reply := sendRequest(t, conn, wire.List(wire.Keyword("reload-all")), 7)

	list, ok := reply.AsList()
	require.True(t, ok)
	require.Len(t, list, 3)
	status, ok := list[1].AsList()
	require.True(t, ok)
	tag, _ := status[0].AsString()
	require.Equal(t, "ok", tag)
	callID, _ := list[2].AsInt()
	require.Equal(t, int64(7), callID)
}

func TestDispatchDebugSetBreakpointMissingArgAborts(t *testing.T) {
	conn := newTestRouter(t)
	reply := sendRequest(t, conn, wire.List(wire.Keyword("debug-set-breakpoint")), 3)

	list, ok := reply.AsList()
	require.True(t, ok)
	status, ok := list[1].AsList()
	require.True(t, ok)
	tag, _ := status[0].AsString()
	require.Equal(t, "abort", tag)
}

func TestDispatchPreservesPerConnectionArrivalOrder(t *testing.T) {
	conn := newTestRouter(t)

	const n = 8
	for i := 0; i < n; i++ {
		req := wire.List(wire.Keyword("swank-rpc"), wire.List(wire.Keyword("reload-all")), wire.Int(int64(i)))
		require.NoError(t, wire.WriteFrame(conn, req))
	}

	for i := 0; i < n; i++ {
		reply, err := wire.ReadFrame(conn)
		require.NoError(t, err)
		list, ok := reply.AsList()
		require.True(t, ok)
		callID, _ := list[2].AsInt()
		require.Equal(t, int64(i), callID, "replies must come back in the order the requests were sent")
	}
}

func TestDispatchDebugStepUnrecognizedKindAborts(t *testing.T) {
	conn := newTestRouter(t)
	form := wire.List(wire.Keyword("debug-step"), wire.Int(1), wire.Str("sideways"))
	reply := sendRequest(t, conn, form, 9)

	list, ok := reply.AsList()
	require.True(t, ok)
	status, ok := list[1].AsList()
	require.True(t, ok)
	tag, _ := status[0].AsString()
	require.Equal(t, "abort", tag)
}
