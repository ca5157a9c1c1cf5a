// Command parking-panic starts the Parking Panic game server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control the listen address, level directory, session persistence,
// and debug logging.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/gridgames/parking-panic/api"
	"github.com/gridgames/parking-panic/game/config"
	"github.com/gridgames/parking-panic/game/service"
	"github.com/gridgames/parking-panic/game/session"
	"github.com/gridgames/parking-panic/transport/mcp"
	"github.com/gridgames/parking-panic/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Parking Panic Game Server"
)

// serverOptions collects the flag values shared by both modes.
type serverOptions struct {
	addr        string
	levelDir    string
	sessionsDir string
	persist     bool
}

// defaultAddr returns the default listen address.
// It first honors the PORT environment variable, then falls back to localhost:8080.
func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return "localhost:8080"
}

// main loads the environment, parses the command line, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Warnf("Error loading .env file: %v", err)
		}
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "parking-panic",
		Usage:   "sliding-block puzzle server with REST, WebSocket, and MCP transports",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   defaultAddr(),
				Usage:   "HTTP listen address",
				Sources: cli.EnvVars("ADDR"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing level files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "directory for persisted sessions",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{
				Name:  "persist",
				Value: true,
				Usage: "save sessions to disk and restore them on startup",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server with API, WebSocket, and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts := optionsFrom(cmd)
					log.Infof("Starting %s v%s (mode: serve)", AppName, Version)

					gameService, sessionManager, err := initializeServices(opts)
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					return runHTTPServer(opts.addr, gameService, sessionManager)
				},
			},
			{
				Name:    "stdio",
				Aliases: []string{"mcp", "stdio-mcp"},
				Usage:   "run the MCP stdio server with an internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts := optionsFrom(cmd)
					log.Infof("Starting %s v%s (mode: stdio)", AppName, Version)

					gameService, _, err := initializeServices(opts)
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					return runStdioMCP(gameService)
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// optionsFrom reads the shared flags off the command lineage.
func optionsFrom(cmd *cli.Command) serverOptions {
	return serverOptions{
		addr:        cmd.String("addr"),
		levelDir:    cmd.String("config-dir"),
		sessionsDir: cmd.String("sessions-dir"),
		persist:     cmd.Bool("persist"),
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp endpoint.
func runHTTPServer(addr string, gameService service.GameService, sessionManager *session.Manager) error {
	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Create API server
	apiServer := api.NewServer(gameService, hub)

	// Create MCP client for /mcp endpoint
	mcpClient := mcp.NewClient(clientBaseURL(addr))

	// Create main router that combines API and MCP
	mainRouter := http.NewServeMux()

	// Mount API server at root
	mainRouter.Handle("/", apiServer)

	// Always add MCP endpoint for HTTP server. Stateless: every request
	// carries a full JSON-RPC message, no Mcp-Session-Id bookkeeping.
	mcpHTTP := server.NewStreamableHTTPServer(
		mcpClient.GetMCPServer(),
		server.WithStateLess(true),
	)
	mainRouter.Handle("/mcp", mcpHTTP)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-stop
	log.Infof("Received signal: %v. Shutting down...", sig)

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	// Flush every session to disk so nothing committed since the last
	// periodic save is lost
	if err := sessionManager.SaveAllSessions(); err != nil {
		log.Warnf("Failed to flush sessions during shutdown: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Info("Server stopped")
	return nil
}

// clientBaseURL turns a listen address into a URL the in-process MCP client
// can dial. A bare ":8080" listens on every interface; the client reaches it
// through localhost.
func clientBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// initializeServices wires the level manager, session manager, and game service.
// It also starts a background cleanup routine to prune stale sessions.
func initializeServices(opts serverOptions) (service.GameService, *session.Manager, error) {
	// Create level manager first (needed for persistence)
	levelManager, err := config.NewManager(opts.levelDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	var sessionManager *session.Manager
	if opts.persist {
		// Create session persistence
		persistence, err := session.NewFilePersistence(opts.sessionsDir, levelManager)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
		}

		// Create session manager with persistence
		sessionManager = session.NewManagerWithPersistence(persistence)

		// Load persisted sessions on startup
		if err := sessionManager.LoadPersistedSessions(); err != nil {
			log.Warnf("Failed to load persisted sessions: %v", err)
		}

		// Start filesystem sync routine
		go filesystemSyncRoutine(sessionManager, persistence)
	} else {
		sessionManager = session.NewManager()
	}

	// Create game service
	gameService := service.NewGameService(sessionManager, levelManager)

	// Start session cleanup routine
	go sessionCleanupRoutine(sessionManager)

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Infof("Cleaned up %d expired sessions", removed)
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory sessions with filesystem state.
// It removes sessions from memory when their corresponding files are deleted.
func filesystemSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if persistence == nil {
			continue
		}

		// Check each memory session against the filesystem
		pruned := 0
		for _, sess := range manager.List() {
			if !persistence.Exists(sess.ID) {
				// File deleted, remove from memory
				if err := manager.DeleteFromMemory(sess.ID); err == nil {
					pruned++
					log.Infof("Pruned session %s from memory (file deleted)", sess.ID)
				}
			}
		}

		if pruned > 0 {
			log.Infof("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// runStdioMCP runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCP(gameService service.GameService) error {
	var baseURL string

	// First, try to connect to an external API server at localhost:8080
	externalURL := "http://localhost:8080"
	log.Infof("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Infof("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		// No external server found, start an internal one
		log.Info("No external API server found, starting internal HTTP server")

		// Bind to a random available loopback port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalPort := listener.Addr().(*net.TCPAddr).Port
		internalAddr := fmt.Sprintf("127.0.0.1:%d", internalPort)

		log.Infof("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		// Create WebSocket hub
		hub := websocket.NewHub()
		go hub.Run()

		// Create API server
		apiServer := api.NewServer(gameService, hub)

		httpServer := &http.Server{
			Handler: apiServer,
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Errorf("Internal HTTP server error: %v", err)
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	// Create MCP client pointing to the selected server
	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Info("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Info("MCP stdio server ready (using internal HTTP server)")
	}

	// Run MCP stdio server (blocking)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
