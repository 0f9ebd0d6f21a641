// Copyright (c) 2025-2026 TechConf MCP Authors and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mcp

// In this file: MCP server construction and transport management.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/techconf/techconf-mcp/internal/importer"
	"github.com/techconf/techconf-mcp/internal/repository"
	"github.com/techconf/techconf-mcp/internal/store"
)

const (
	serverName    = "techconf-mcp"
	serverVersion = "1.0.0"
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	// TransportStdio uses stdin/stdout for communication (default, suitable
	// for local agent integrations such as Claude Desktop).
	TransportStdio Transport = "stdio"
	// TransportHTTP uses Streamable HTTP transport (suitable for remote
	// agents or when multiple concurrent clients are needed).
	TransportHTTP Transport = "http"
)

// Server wraps an MCP server and the conference store behind it.
type Server struct {
	mcp    *mcpsrv.MCPServer
	store  *store.Store
	imp    *importer.Importer
	logger *slog.Logger
	now    func() time.Time

	// lazy seed gate: the first tool call imports the bundled conference
	// if the store is empty.  Runs at most once.
	seedMu   sync.Mutex
	seeded   bool
	seedFunc func(ctx context.Context) error

	conferences repository.ConferenceRepository
	speakers    repository.SpeakerRepository
	venues      repository.VenueRepository
	sessions    repository.SessionRepository
}

// New creates a new MCP server over the given store.  The server is
// populated with all available tools but does not start listening until one
// of the Serve* methods is called.
func New(st *store.Store, lg *slog.Logger) *Server {
	if lg == nil {
		lg = slog.Default()
	}
	s := &Server{
		store:       st,
		imp:         importer.New(st, lg),
		logger:      lg,
		now:         time.Now,
		conferences: repository.NewConferenceRepository(),
		speakers:    repository.NewSpeakerRepository(),
		venues:      repository.NewVenueRepository(),
		sessions:    repository.NewSessionRepository(),
	}
	s.seedFunc = s.seedIfEmpty

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithInstructions(instructions()),
	)
	for _, t := range s.tools() {
		mcpServer.AddTool(t.Tool, t.Handler)
	}
	s.mcp = mcpServer
	return s
}

// instructions returns the server instructions that describe the data to
// the connecting agent.
func instructions() string {
	return `You are connected to a TechConf MCP server exposing conference schedule data.

Available tools allow you to:
- List sessions with filters (track, day, speaker, difficulty, format)
- Search sessions by keyword in title or description
- Look up a speaker and their sessions
- Get the schedule for a date or time window
- Find a room and what is running in it
- Get full details of a single session

All data is read-only.  Dates accept RFC3339 timestamps, YYYY-MM-DD, and
natural expressions such as "today", "tomorrow" or "next monday".`
}

// ensureData runs the one-time seed import.  Used by every tool handler
// before touching the store; a failed import is logged and the store stays
// empty rather than failing the call.
func (s *Server) ensureData(ctx context.Context) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if s.seeded {
		return
	}
	s.seeded = true
	if err := s.seedFunc(ctx); err != nil {
		s.logger.WarnContext(ctx, "seed import failed, continuing with empty store", "error", err)
	}
}

func (s *Server) seedIfEmpty(ctx context.Context) error {
	has, err := s.imp.HasData(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return s.imp.ImportBundled(ctx)
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
// This is the standard transport used by local agent integrations.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled.  addr should be a host:port string such as "127.0.0.1:8391".
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr}
	streamSrv := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithStreamableHTTPServer(httpSrv),
	)

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := streamSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		if err := streamSrv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// tools returns all MCP tools that this server exposes.
func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolListSessions(),
		s.toolSearchSessions(),
		s.toolGetSpeaker(),
		s.toolGetSchedule(),
		s.toolFindRoom(),
		s.toolGetSessionDetails(),
	}
}

// resultErr is a helper that wraps an error in a CallToolResult with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

// resultJSON is a helper that serialises v to JSON and returns a CallToolResult.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	return mcplib.NewToolResultJSON(v)
}
