package menu

import (
	"context"
	"fmt"

	"storebot/pkg/gateway"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// Webhooks lists registered webhook listeners grouped by resource kind, with
// shortcuts to subscribe to the common kinds.
func (c *Catalog) Webhooks(ctx context.Context) view.Model {
	res := c.gw.Call(ctx, "subscriptions", "list", nil)
	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", token.Main())
	}

	var rows [][]view.Option
	registered := 0
	for _, resource := range gateway.WebhookResources {
		for _, sub := range res.Subscriptions[resource] {
			registered++
			label := fmt.Sprintf("📡 %s: %s", resource, truncate(sub.PostURL, 20))
			rows = append(rows, view.Row(
				view.Btn(label, token.Noop()),
				view.Btn("🗑️", token.WebhookDeleteAsk(token.WebhookID(sub.ID))),
			))
		}
	}

	text := "📡 *Webhooks*\n\nAutomated listeners notifying external systems about store events."
	if registered == 0 {
		text = "📡 *Webhooks*\n\nNo listeners registered yet. Subscribe to an event kind below."
	}

	rows = append(rows,
		view.Row(
			view.Btn("➕ Sale", token.WebhookNew("sale")),
			view.Btn("➕ Refund", token.WebhookNew("refund")),
			view.Btn("➕ Dispute", token.WebhookNew("dispute")),
		),
		view.Row(
			view.Btn("➕ Sub. Update", token.WebhookNew("subscription_updated")),
			view.Btn("➕ Sub. End", token.WebhookNew("subscription_ended")),
		),
		view.Row(view.Btn("➕ Cancel", token.WebhookNew("cancellation"))),
		view.Row(view.Btn("🏠 Main Menu", token.Main())),
	)

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}
