// Package render converts a screen model into a channel-appropriate payload:
// a native button grid on capable channels, or a numbered text menu
// elsewhere. Either way the session keeps a numbered-reply mapping, so a
// straggling "3" still resolves even after a button render.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storebot/pkg/session"
	"storebot/pkg/view"
)

// buttonChannels are the channel kinds that can render native buttons,
// provided the channel also advertises the capability.
var buttonChannels = map[string]bool{
	"telegram": true,
	"discord":  true,
	"slack":    true,
	"webchat":  true,
}

// Payload is the rendered screen handed to the channel transport.
type Payload struct {
	Text string `json:"text"`
	// Buttons carries the native option grid in button mode; empty in text
	// mode, where the options are folded into Text as a numbered list.
	Buttons [][]view.Option `json:"buttons,omitempty"`
	Mode    view.Mode       `json:"mode"`
	// Interrupt mirrors the model: the host pipeline should stop here.
	Interrupt       bool   `json:"interrupt"`
	TargetMessageID string `json:"target_message_id,omitempty"`
}

// Renderer adapts screen models to channel capabilities.
type Renderer struct {
	now func() time.Time
}

// New creates a renderer using the wall clock.
func New() *Renderer {
	return &Renderer{now: time.Now}
}

// NewWithClock creates a renderer with an injected clock. Used in tests.
func NewWithClock(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

// SupportsButtons reports whether a channel can render native buttons: the
// channel kind must be in the fixed button-capable set AND advertise an
// inline-buttons capability.
func SupportsButtons(channel string, capabilities []string) bool {
	if !buttonChannels[strings.ToLower(channel)] {
		return false
	}
	for _, c := range capabilities {
		if c == "inlineButtons" || c == "buttons" {
			return true
		}
	}
	return false
}

// Render converts a model for the given channel and persists the
// numbered-reply mapping on the session. Rendering is total: any well-formed
// model produces a payload. A nil state disables the mapping silently.
func (r *Renderer) Render(st *session.State, channel string, capabilities []string, m view.Model) *Payload {
	// Numbered keys are assigned in row-major order over non-link options,
	// in both modes.
	actionable := m.Actionable()
	mapping := make(map[string]string, len(actionable))
	for i, opt := range actionable {
		mapping[strconv.Itoa(i+1)] = opt.Token
	}
	st.SetMenuMapping(mapping, r.now())

	if SupportsButtons(channel, capabilities) {
		return &Payload{
			Text:            m.Text + "\n\n*Tap an option below:*",
			Buttons:         m.Options,
			Mode:            m.Mode,
			Interrupt:       m.Interrupt,
			TargetMessageID: m.TargetMessageID,
		}
	}

	var b strings.Builder
	b.WriteString(m.Text)
	b.WriteString("\n\n")
	for i, opt := range actionable {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt.Label)
	}
	b.WriteString("\n*Reply with a number to select.*")

	// A text-only channel cannot usefully edit a numbered menu the user has
	// already replied to, so delivery is always a fresh message.
	return &Payload{
		Text:      b.String(),
		Mode:      view.ModeSend,
		Interrupt: m.Interrupt,
	}
}
