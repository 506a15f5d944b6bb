// Package view defines the channel-agnostic screen model produced by menu
// builders and consumed by the adaptive renderer.
package view

// Mode controls how a rendered screen is delivered to the channel.
type Mode string

const (
	// ModeReplace edits the message the user interacted with in place.
	ModeReplace Mode = "replace-current"
	// ModeSend delivers the screen as a new message.
	ModeSend Mode = "send-new"
)

// Option is a single selectable entry in a screen's option grid. Exactly one
// of Token or Link is set: Token options dispatch an action, Link options
// open an external URL and are never selectable by number.
type Option struct {
	Label string
	Token string
	Link  string
}

// IsLink reports whether the option opens an external URL instead of
// dispatching an action token.
func (o Option) IsLink() bool {
	return o.Link != ""
}

// Model describes one screen before adaptive rendering: a text body plus a
// row-major grid of options (rows top-to-bottom, options left-to-right).
type Model struct {
	Text    string
	Options [][]Option
	Mode    Mode
	// Interrupt stops other handlers in the host pipeline from seeing the
	// message that produced this screen.
	Interrupt bool
	// TargetMessageID names the message to edit for ModeReplace, when the
	// channel requires it. Empty means "the message being interacted with".
	TargetMessageID string
}

// Btn builds a token option.
func Btn(label, token string) Option {
	return Option{Label: label, Token: token}
}

// LinkBtn builds an external-link option.
func LinkBtn(label, url string) Option {
	return Option{Label: label, Link: url}
}

// Row builds one grid row.
func Row(opts ...Option) []Option {
	return opts
}

// Actionable returns the non-link options flattened in row-major order.
// This is the canonical ordering used for numbered-reply assignment.
func (m Model) Actionable() []Option {
	var out []Option
	for _, row := range m.Options {
		for _, opt := range row {
			if !opt.IsLink() {
				out = append(out, opt)
			}
		}
	}
	return out
}
