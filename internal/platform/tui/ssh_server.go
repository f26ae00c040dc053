package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/web"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tui2048/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the starting point for each player's setup screen.
	Game config.GameConfig
}

// SSHServer wraps a Wish SSH server that runs one game per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	hub    *web.Hub
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. store and hub may be nil.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, hub *web.Hub, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config: cfg,
		store:  store,
		hub:    hub,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".tui2048", "host_key")
	}
	hostKeyPath = config.ExpandHome(hostKeyPath)

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Seed:    time.Now().UnixNano(),
	}

	var feed Feed
	if s.hub != nil {
		id := s.hub.NewSession(sshSession.User())
		s.logger.Info("spectator session", "user", sshSession.User(), "session", id)
		feed = func(snap t2048.Snapshot) { s.hub.Publish(id, snap) }
		go func() {
			<-sshSession.Context().Done()
			s.hub.EndSession(id)
		}()
	}

	model := NewSessionModel(s.store, s.config.Game, cfg, feed)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe runs the SSH server until ctx is cancelled, then shuts it
// down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages one player's flow: setup -> game -> setup.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	base      config.GameConfig
	config    core.RuntimeConfig
	feed      Feed
	setup     SetupModel
	gameModel *Model
	quitting  bool
}

// NewSessionModel creates a new session model that opens on the setup screen.
func NewSessionModel(store *storage.Store, base config.GameConfig, cfg core.RuntimeConfig, feed Feed) SessionModel {
	return SessionModel{
		store:  store,
		base:   base,
		config: cfg,
		feed:   feed,
		setup:  NewSetupModel(base, cfg.ScreenW, cfg.ScreenH, BestLookup(store)),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.setup.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.gameModel != nil {
		return m.updateGame(msg)
	}
	return m.updateSetup(msg)
}

// updateSetup handles updates on the setup screen. The setup model's own
// tea.Quit is swallowed; only an explicit quit ends the session.
func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, _ := m.setup.Update(msg)
	if setup, ok := next.(SetupModel); ok {
		m.setup = setup
	}

	if m.setup.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if cfg, ok := m.setup.Selected(); ok {
		m.config.Seed = time.Now().UnixNano()
		game := NewGame(cfg, m.store, m.feed)
		gameModel := NewModel(game, m.store, m.config)
		m.gameModel = &gameModel
		return m, m.gameModel.Init()
	}

	return m, nil
}

// updateGame handles updates while a game is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.gameModel.Update(msg)
	if gameModel, ok := next.(Model); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		m.setup = NewSetupModel(m.base, m.config.ScreenW, m.config.ScreenH, BestLookup(m.store))
		return m, m.setup.Init()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.gameModel != nil {
		return m.gameModel.View()
	}
	return m.setup.View()
}
