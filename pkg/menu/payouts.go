package menu

import (
	"context"
	"fmt"

	"storebot/pkg/gateway"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

const maxPayoutRows = 10

// Payouts lists transfers, newest first. Upcoming deposits have no id yet
// and render as inert rows.
func (c *Catalog) Payouts(ctx context.Context, page string) view.Model {
	params := gateway.Params{}
	if page != "" {
		params["page"] = page
	}

	res := c.gw.Call(ctx, "payouts", "list", params)
	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", token.Main())
	}

	payouts := res.Payouts
	if len(payouts) > maxPayoutRows {
		payouts = payouts[:maxPayoutRows]
	}

	var rows [][]view.Option
	for _, p := range payouts {
		if p.ID == "" {
			rows = append(rows, view.Row(
				view.Btn(fmt.Sprintf("✨ Upcoming: %s %s", p.Amount, p.Currency), token.Noop()),
			))
			continue
		}
		label := fmt.Sprintf("%s %s - %s", p.Amount, p.Currency, p.Status)
		rows = append(rows, view.Row(view.Btn(label, token.PayoutDetail(token.PayoutID(p.ID)))))
	}

	text := "💰 *Payout History*\n\nFunds transferred to your accounts, including upcoming deposits."
	if len(payouts) == 0 {
		text = "💰 *Payout History*\n\nNo payouts recorded yet."
	}

	nav := view.Row(view.Btn("🔙 Back", token.Main()))
	if res.NextPageKey != "" {
		nav = append(nav, view.Btn("➡️ Next Page", token.PayoutsPage(res.NextPageKey)))
	} else if page != "" {
		nav = append(nav, view.Btn("🏠 First Page", token.Payouts()))
	}
	rows = append(rows, nav)

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}

// PayoutDetail shows one transfer.
func (c *Catalog) PayoutDetail(ctx context.Context, id token.PayoutID) view.Model {
	res := c.gw.Call(ctx, "payouts", "details", gateway.Params{"id": string(id)})
	if !res.Success || res.Payout == nil {
		return Failure(orUnknown(res.Error), "🔙 Back", token.Payouts())
	}

	p := res.Payout
	processed := p.ProcessedAt
	if processed == "" {
		processed = "Pending"
	}

	text := fmt.Sprintf(
		"💹 *Payout Details*\n\n🆔 ID: `%s`\n💰 Amount: %s %s\n📊 Status: %s\n📅 Created: %s\n💸 Processed: %s\n🏦 Processor: %s",
		p.ID, p.Amount, p.Currency, p.Status, p.CreatedAt, processed, p.PaymentProcessor,
	)

	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(view.Btn("🔙 Back to Payouts", token.Payouts())),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}
