// Command citeproc-lsp wraps a processor.Processor behind a small
// JSON-RPC 2.0 server on stdio, so an editor plugin or integration test
// can drive compute()/batched-updates()/drain()/get-cluster() as a
// subprocess rather than linking the library directly. It reuses the
// teacher's own stdio-stream plumbing from cmd/tony-lsp (NewStream over
// os.Stdin/os.Stdout, NewConn, conn.Go, <-conn.Done()) but dispatches its
// own small method set instead of implementing the full LSP
// protocol.Server interface, since none of compute/batchedUpdates/drain/
// getCluster are LSP methods.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tonycite/citeproc/cite"
	"github.com/tonycite/citeproc/internal/config"
	"github.com/tonycite/citeproc/internal/devtool"
	"github.com/tonycite/citeproc/processor"
)

func main() {
	bundlePath := flag.String("bundle", "", "path to a references/clusters YAML bundle to preload")
	outputFormat := flag.String("format", "plain-text", "plain-text, html, or rtf")
	flag.Parse()

	p, err := processor.New("", devtool.NewStyleCompiler(), devtool.NoLocaleFetcher{}, devtool.NewTermStore(), nil, *outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "citeproc-lsp: %v\n", err)
		os.Exit(1)
	}

	if *bundlePath != "" {
		bundle, err := config.Load(*bundlePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "citeproc-lsp: %v\n", err)
			os.Exit(1)
		}
		p.SetReferences(bundle.References())
		p.InitClusters(bundle.ClusterInputs())
	}

	srv := &server{proc: p}

	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{read: os.Stdin, write: os.Stdout})
	conn := jsonrpc2.NewConn(stream)
	srv.conn = conn
	conn.Go(ctx, srv.handle)
	<-conn.Done()
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.read.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.write.Write(p) }
func (s *stdioReadWriteCloser) Close() error                { return nil }

// server dispatches the four methods this binary exposes over the
// connection's raw request/reply primitives.
type server struct {
	conn jsonrpc2.Conn
	proc *processor.Processor
}

type getClusterParams struct {
	ClusterID string `json:"clusterId"`
}

type getClusterResult struct {
	Rendered string `json:"rendered"`
	Found    bool   `json:"found"`
}

func (s *server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "initialize":
		// Answered in real LSP shape (protocol.InitializeParams/Result) so
		// a standard LSP client can still complete its handshake before
		// switching over to this server's own compute/batchedUpdates/
		// drain/getCluster method set, even though none of those four are
		// part of the LSP method set themselves.
		var params protocol.InitializeParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, fmt.Errorf("initialize: %w", err))
		}
		return reply(ctx, protocol.InitializeResult{
			Capabilities: protocol.ServerCapabilities{},
			ServerInfo:   &protocol.ServerInfo{Name: "citeproc-lsp", Version: "0.1.0"},
		}, nil)

	case "compute":
		err := s.proc.Compute()
		return reply(ctx, struct{}{}, err)

	case "batchedUpdates":
		return reply(ctx, s.proc.BatchedUpdates(), nil)

	case "drain":
		s.proc.Drain()
		return reply(ctx, struct{}{}, nil)

	case "getCluster":
		var params getClusterParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, fmt.Errorf("getCluster: %w", err))
		}
		text, ok := s.proc.GetCluster(cite.ClusterID(params.ClusterID))
		return reply(ctx, getClusterResult{Rendered: text, Found: ok}, nil)

	default:
		return reply(ctx, nil, fmt.Errorf("method not found: %s", req.Method()))
	}
}
