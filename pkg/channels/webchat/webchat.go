// Package webchat provides an HTTP chat transport for embedding the bot in
// a web page or calling it from scripts.
package webchat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"go.uber.org/zap"

	"storebot/pkg/config"
	"storebot/pkg/logger"
	"storebot/pkg/render"
	"storebot/pkg/router"
	"storebot/pkg/session"
)

// Channel implements the webchat channel: a small JSON API where each
// request carries the session ID and the response carries the rendered
// screen, buttons included.
type Channel struct {
	log      *logger.Logger
	router   *router.Router
	sessions *session.Manager
	config   *config.WebchatConfig

	echo       *echo.Echo
	httpServer *http.Server
}

// chatRequest is one inbound message. A missing session ID starts a fresh
// conversation; the assigned ID comes back in the response.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type chatResponse struct {
	SessionID string          `json:"session_id"`
	Handled   bool            `json:"handled"`
	Reply     *render.Payload `json:"reply,omitempty"`
}

// New creates a new webchat channel.
func New(
	log *logger.Logger,
	rt *router.Router,
	sessions *session.Manager,
	cfg *config.WebchatConfig,
) *Channel {
	c := &Channel{
		log:      log,
		router:   rt,
		sessions: sessions,
		config:   cfg,
	}
	c.setup()
	return c
}

// ID returns the channel identifier.
func (c *Channel) ID() string {
	return "webchat"
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return "Webchat"
}

// IsEnabled returns whether the channel is enabled.
func (c *Channel) IsEnabled() bool {
	return c.config.Enabled
}

// Capabilities advertises structured button support.
func (c *Channel) Capabilities() []string {
	return []string{"buttons"}
}

func (c *Channel) setup() {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	e.GET("/healthz", c.handleHealth)
	e.POST("/api/chat", c.handleChat)
	e.POST("/api/menu", c.handleMenu)

	c.echo = e
}

// Start starts the webchat HTTP server.
func (c *Channel) Start(ctx context.Context) error {
	addr := c.config.Listen
	if addr == "" {
		addr = "127.0.0.1:8090"
	}
	c.log.Info("Webchat server starting", zap.String("addr", addr))

	// Use http.Server directly so shutdown stays under lifecycle control.
	c.httpServer = &http.Server{
		Addr:    addr,
		Handler: c.echo,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := c.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("webchat server: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// Stop gracefully stops the webchat server.
func (c *Channel) Stop(ctx context.Context) error {
	c.log.Info("Webchat server stopping")
	if c.httpServer != nil {
		return c.httpServer.Shutdown(ctx)
	}
	return nil
}

func (c *Channel) handleHealth(ec *echo.Context) error {
	return ec.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleMenu opens the main menu for a session, assigning a session ID when
// the request carries none.
func (c *Channel) handleMenu(ec *echo.Context) error {
	var body chatRequest
	if err := ec.Bind(&body); err != nil {
		return ec.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	sid := c.sessionID(body.SessionID)
	ctx, cancel := context.WithTimeout(ec.Request().Context(), 60*time.Second)
	defer cancel()

	var payload *render.Payload
	err := c.sessions.With(ctx, "webchat:"+sid, func(st *session.State) error {
		payload = c.router.OpenMenu(ctx, c.request(st))
		return nil
	})
	if err != nil {
		c.log.Error("Webchat menu failed", zap.Error(err))
		return ec.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return ec.JSON(http.StatusOK, chatResponse{SessionID: sid, Handled: true, Reply: payload})
}

func (c *Channel) handleChat(ec *echo.Context) error {
	var body chatRequest
	if err := ec.Bind(&body); err != nil {
		return ec.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		return ec.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	sid := c.sessionID(body.SessionID)
	ctx, cancel := context.WithTimeout(ec.Request().Context(), 60*time.Second)
	defer cancel()

	var payload *render.Payload
	handled := false
	err := c.sessions.With(ctx, "webchat:"+sid, func(st *session.State) error {
		payload, handled = c.router.HandleMessage(ctx, c.request(st), text)
		return nil
	})
	if err != nil {
		c.log.Error("Webchat message failed", zap.Error(err))
		return ec.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return ec.JSON(http.StatusOK, chatResponse{SessionID: sid, Handled: handled, Reply: payload})
}

func (c *Channel) request(st *session.State) *router.Request {
	return &router.Request{
		Channel:      c.ID(),
		Capabilities: c.Capabilities(),
		State:        st,
	}
}

func (c *Channel) sessionID(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		return requested
	}
	return uuid.NewString()
}
