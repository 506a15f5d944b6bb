// Package router resolves inbound chat text to typed commands and
// dispatches them. Resolution order: a fresh numbered reply is substituted
// with its mapped token; an active pending flow gets the text next; then
// the text must carry the namespace marker and parse to a known command, or
// the message is declared not-for-this-system and control returns to the
// host pipeline.
package router

import (
	"context"
	"strings"
	"time"

	"storebot/pkg/flow"
	"storebot/pkg/gateway"
	"storebot/pkg/logger"
	"storebot/pkg/menu"
	"storebot/pkg/render"
	"storebot/pkg/session"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// Request carries the host-supplied context for one inbound message: the
// channel identity and capabilities (for rendering) and the session state.
// A nil State disables mapping and flow behavior gracefully.
type Request struct {
	Channel      string
	Capabilities []string
	State        *session.State
}

// Router is the dispatch engine.
type Router struct {
	log      *logger.Logger
	gw       gateway.Gateway
	catalog  *menu.Catalog
	flows    *flow.Machine
	renderer *render.Renderer
	now      func() time.Time
}

// New creates a router using the wall clock.
func New(log *logger.Logger, gw gateway.Gateway, catalog *menu.Catalog, flows *flow.Machine, renderer *render.Renderer) *Router {
	return &Router{
		log:      log,
		gw:       gw,
		catalog:  catalog,
		flows:    flows,
		renderer: renderer,
		now:      time.Now,
	}
}

// NewWithClock creates a router with an injected clock. Used in tests.
func NewWithClock(log *logger.Logger, gw gateway.Gateway, catalog *menu.Catalog, flows *flow.Machine, renderer *render.Renderer, now func() time.Time) *Router {
	r := New(log, gw, catalog, flows, renderer)
	r.now = now
	return r
}

// OpenMenu renders the main menu as a fresh message. Equivalent to
// dispatching the main navigation token, delivered as send-new.
func (r *Router) OpenMenu(ctx context.Context, req *Request) *render.Payload {
	if req.State != nil {
		req.State.ClearPending()
	}
	vm := r.catalog.MainMenu()
	vm.Mode = view.ModeSend
	return r.render(req, vm)
}

// HandleMessage processes one normalized inbound message. The bool is false
// when the message is not for this system; the host's other handlers then
// see it unchanged.
func (r *Router) HandleMessage(ctx context.Context, req *Request, text string) (*render.Payload, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	st := req.State

	// Numbered replies resolve only while the mapping is fresh; expired or
	// unknown numbers continue as ordinary text so an unrelated "7" is never
	// misread as a menu selection.
	if st != nil {
		if tok, ok := st.Menu.Resolve(text, r.now()); ok {
			text = tok
		}
	}

	// An active flow gets first claim on the (possibly substituted) text.
	// The machine declines namespaced tokens, which keep routing below.
	if r.flows.Active(st) {
		if vm, ok := r.flows.Advance(ctx, st, text); ok {
			return r.render(req, vm), true
		}
	}

	cmd, ok := token.Parse(text)
	if !ok {
		return nil, false
	}
	if cmd.Kind == token.KindNoop {
		// Inert rows: selecting them does nothing, same as the host
		// ignoring an unknown message.
		return nil, false
	}

	// Navigation always abandons in-progress multi-step input.
	if cmd.IsNavigation() {
		st.ClearPending()
	}

	vm := r.dispatch(ctx, st, cmd)
	return r.render(req, vm), true
}

func (r *Router) render(req *Request, vm view.Model) *render.Payload {
	return r.renderer.Render(req.State, req.Channel, req.Capabilities, vm)
}
