package menu

import (
	"context"
	"fmt"

	"storebot/pkg/gateway"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

const maxDiscountRows = 10

// Discounts lists a product's offer codes with usage stats.
func (c *Catalog) Discounts(ctx context.Context, pid token.ProductID) view.Model {
	res := c.gw.Call(ctx, "discounts", "list", gateway.Params{"product": string(pid)})
	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", token.ProductDetail(pid))
	}

	codes := res.OfferCodes
	if len(codes) > maxDiscountRows {
		codes = codes[:maxDiscountRows]
	}

	var rows [][]view.Option
	for _, o := range codes {
		label := fmt.Sprintf("%s (%s) [%d]", o.Name, fmtOfferValue(o), o.TimesUsed)
		rows = append(rows, view.Row(
			view.Btn(label, token.DiscountDetail(pid, token.DiscountID(o.ID))),
		))
	}

	text := "🎟️ *Discount Codes*\n\nActive codes for this product with their usage counts."
	if len(codes) == 0 {
		text = "🎟️ *Discount Codes*\n\nNo codes on this product yet."
	}

	rows = append(rows,
		view.Row(view.Btn("➕ Create Discount", token.DiscountNew(pid))),
		view.Row(view.Btn("🔙 Back to Product", token.ProductDetail(pid))),
	)

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}

// DiscountDetail shows one offer code with edit and delete actions.
func (c *Catalog) DiscountDetail(ctx context.Context, pid token.ProductID, did token.DiscountID) view.Model {
	res := c.gw.Call(ctx, "discounts", "details", gateway.Params{
		"product": string(pid),
		"id":      string(did),
	})
	if !res.Success || res.OfferCode == nil {
		return Failure(orUnknown(res.Error), "🔙 Back", token.Discounts(pid))
	}

	o := res.OfferCode
	limit := "∞"
	if o.MaxPurchaseCount > 0 {
		limit = fmt.Sprintf("%d", o.MaxPurchaseCount)
	}

	text := fmt.Sprintf(
		"🎫 *Discount Details*\n\n🎟️ *%s*\nID: `%s`\n💰 Amount: %s\n📊 Usage: %d / %s\n🌐 Universal: %t",
		o.Name, o.ID, fmtOfferValue(*o), o.TimesUsed, limit, o.Universal.Bool(),
	)

	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(
				view.Btn("📝 Edit", token.DiscountEdit(pid, did)),
				view.Btn("🗑️ Delete", token.DiscountDeleteAsk(pid, did)),
			),
			view.Row(view.Btn("🔙 Back to List", token.Discounts(pid))),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}
