// Package menu builds the channel-agnostic screens of the commerce console.
// Every builder is total: gateway failures degrade to an error screen with a
// way back, never to an unhandled fault.
package menu

import (
	"fmt"

	"storebot/pkg/gateway"
	"storebot/pkg/logger"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// Catalog holds the dependencies shared by all screen builders.
type Catalog struct {
	log *logger.Logger
	gw  gateway.Gateway
}

// NewCatalog creates a screen catalog over a gateway.
func NewCatalog(log *logger.Logger, gw gateway.Gateway) *Catalog {
	return &Catalog{log: log, gw: gw}
}

// errView is the uniform failure screen: the error text plus a single way
// back to a known-good screen.
func errView(msg, backLabel, backToken string) view.Model {
	return view.Model{
		Text: "⚠️ " + msg,
		Options: [][]view.Option{
			view.Row(view.Btn(backLabel, backToken)),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

// Failure renders a gateway error with a back option.
func Failure(err string, backLabel, backToken string) view.Model {
	return errView("Error: "+orUnknown(err), backLabel, backToken)
}

// SessionExpired is shown when a finalization token arrives with no
// corresponding pending flow, e.g. after expiry or a restart.
func SessionExpired() view.Model {
	return view.Model{
		Text: "⚠️ Session expired. Please restart.",
		Options: [][]view.Option{
			view.Row(view.Btn("🔙 Back", token.Main())),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

// MainMenu is the dashboard. It issues no gateway calls.
func (c *Catalog) MainMenu() view.Model {
	return view.Model{
		Text: "💎 *Store Console*\n\nYour store at a glance. Manage products, track sales and payouts, and keep webhooks in order.",
		Options: [][]view.Option{
			view.Row(view.Btn("📦 Products", token.Products()), view.Btn("💸 Sales", token.Sales())),
			view.Row(view.Btn("💰 Payouts", token.Payouts()), view.Btn("📡 Webhooks", token.Webhooks())),
			view.Row(view.Btn("👤 Account", token.Account()), view.Btn("🔄 Refresh", token.Main())),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func orUnknown(err string) string {
	if err == "" {
		return "unknown error"
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func onOff(published bool) string {
	if published {
		return "🟢"
	}
	return "🔴"
}

func fmtOfferValue(o gateway.OfferCode) string {
	if o.AmountCents > 0 {
		return fmt.Sprintf("$%.2f", float64(o.AmountCents)/100)
	}
	return fmt.Sprintf("%d%%", o.PercentOff)
}
