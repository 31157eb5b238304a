package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/ensureline"
	"github.com/aretw0/ensureline/internal/docs"
	"github.com/aretw0/ensureline/pkg/observability"
)

// ToolName is the name of the single editing tool.
const ToolName = "ensure_line"

// DocURI addresses the embedded user documentation.
const DocURI = "ensureline://doc"

// Applier runs one edit from raw parameters.
type Applier interface {
	ApplyMap(ctx context.Context, raw map[string]any, dryRun bool) (*ensureline.Result, error)
}

// Server exposes an Applier as an MCP server.
type Server struct {
	applier   Applier
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(applier Applier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		applier:   applier,
		logger:    logger,
		mcpServer: server.NewMCPServer("ensureline-mcp", strings.TrimSpace(ensureline.Version), server.WithRecovery()),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	tool := mcp.NewTool(ToolName,
		mcp.WithDescription("Ensure a line is present in, or absent from, a file or dataset. Idempotent."),
		mcp.WithString("destination", mcp.Required(),
			mcp.Description("Absolute file path or dataset name such as SYS1.PARMLIB(IEASYS00)")),
		mcp.WithString("state", mcp.Enum("present", "absent"), mcp.DefaultString("present")),
		mcp.WithString("regexp", mcp.Description("Pattern matched against every line")),
		mcp.WithString("line", mcp.Description("Line to insert or replace; required for state=present")),
		mcp.WithBoolean("backrefs", mcp.Description("Expand back-references in line from the regexp match")),
		mcp.WithString("insertafter", mcp.Description("EOF or a pattern")),
		mcp.WithString("insertbefore", mcp.Description("BOF or a pattern")),
		mcp.WithBoolean("firstmatch", mcp.Description("Use the first placement match instead of the last")),
		mcp.WithBoolean("backup", mcp.Description("Back the destination up before editing")),
		mcp.WithString("backupdest", mcp.Description("Explicit backup target; requires backup")),
		mcp.WithString("dialect", mcp.Enum("re2", "compat")),
		mcp.WithObject("encoding",
			mcp.Description("Code pages, default IBM-1047 to ISO8859-1"),
			mcp.Properties(map[string]any{
				"from": map[string]any{"type": "string"},
				"to":   map[string]any{"type": "string"},
			}),
		),
		mcp.WithBoolean("check", mcp.Description("Report what would change without writing")),
	)
	s.mcpServer.AddTool(tool, s.HandleEnsureLine)
}

// HandleEnsureLine applies the tool arguments. Edit failures are reported as
// tool errors, not protocol errors.
func (s *Server) HandleEnsureLine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	raw := make(map[string]any, len(args))
	dryRun := false
	for k, v := range args {
		if k == "check" {
			dryRun, _ = v.(bool)
			continue
		}
		raw[k] = v
	}

	res, err := s.applier.ApplyMap(ctx, raw, dryRun)
	if err != nil {
		s.logger.Warn("ensure_line failed", "kind", observability.ErrorKind(err), "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", observability.ErrorKind(err), err)), nil
	}

	status := "ok"
	if res.Changed {
		status = "changed"
	}
	return mcp.NewToolResultStructured(res, fmt.Sprintf("%s: %s", status, res.Destination)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DocURI, "ensureline documentation",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      DocURI,
				MIMEType: "text/markdown",
				Text:     docs.Markdown,
			},
		}, nil
	})
}
