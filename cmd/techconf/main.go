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

// Command techconf starts a local MCP server exposing conference schedule
// data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rusq/osenv/v2"

	"github.com/techconf/techconf-mcp/internal/importer"
	"github.com/techconf/techconf-mcp/internal/mcp"
	"github.com/techconf/techconf-mcp/internal/store"
)

var build = "dev"

// secrets defines the names of the supported secret files that we load our
// environment from.  Inexperienced windows users might have bad experience
// trying to create .env file with the notepad as it will battle for having
// the "txt" extension.  Let it have it.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

// params is the command line parameters.
type params struct {
	dbPath     string
	dataFile   string
	transport  string
	listenAddr string

	printVersion bool
	verbose      bool
}

func main() {
	loadSecrets(secrets)

	p, err := parseCmdLine(os.Args[1:])
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(2)
	}
	if p.printVersion {
		fmt.Println(build)
		return
	}

	lvl := slog.LevelInfo
	if p.verbose {
		lvl = slog.LevelDebug
	}
	// stdout carries the stdio transport, logs must go to stderr.
	lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, p, lg); err != nil {
		lg.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, p params, lg *slog.Logger) error {
	st, err := store.Open(ctx, p.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if p.dataFile != "" {
		if err := importFile(ctx, st, lg, p.dataFile); err != nil {
			return err
		}
	}

	srv := mcp.New(st, lg)
	switch mcp.Transport(strings.ToLower(p.transport)) {
	case mcp.TransportStdio, "":
		return srv.ServeStdio(ctx)
	case mcp.TransportHTTP:
		return srv.ServeHTTP(ctx, p.listenAddr)
	default:
		return fmt.Errorf("unknown transport %q (must be \"stdio\" or \"http\")", p.transport)
	}
}

// importFile imports an explicitly named conference document, replacing the
// implicit bundled seed.
func importFile(ctx context.Context, st *store.Store, lg *slog.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	return importer.New(st, lg).ImportConference(ctx, raw)
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		godotenv.Load(f)
	}
}

// parseCmdLine parses the command line arguments.
func parseCmdLine(args []string) (params, error) {
	fs := flag.NewFlagSet("techconf", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			"TechConf MCP server, %s\n"+
				"Exposes conference schedule data (sessions, speakers, rooms) over the\n"+
				"Model Context Protocol.  On first use an empty database is seeded from\n"+
				"the bundled conference document.\n\n"+
				"Usage:  %s [flags]\n\n",
			build, filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	var p params
	fs.StringVar(&p.dbPath, "db", osenv.Value("TECHCONF_DB", defaultDBPath()), "SQLite database `file` (environment: TECHCONF_DB)")
	fs.StringVar(&p.dataFile, "data", osenv.Value("TECHCONF_DATA", ""), "conference JSON `file` to import on startup instead of the bundled data (environment: TECHCONF_DATA)")
	fs.StringVar(&p.transport, "transport", "stdio", "MCP transport: \"stdio\" or \"http\"")
	fs.StringVar(&p.listenAddr, "listen", "127.0.0.1:8391", "address to listen on when -transport=http")
	fs.BoolVar(&p.printVersion, "V", false, "print version and exit")
	fs.BoolVar(&p.verbose, "v", osenv.Value("DEBUG", false), "verbose messages")

	if err := fs.Parse(args); err != nil {
		return p, err
	}
	return p, nil
}

// defaultDBPath places the database under the user cache directory, falling
// back to the working directory.
func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "techconf.db"
	}
	return filepath.Join(dir, "techconf", "techconf.db")
}
