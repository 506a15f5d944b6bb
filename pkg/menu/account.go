package menu

import (
	"context"
	"fmt"

	"storebot/pkg/gateway"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// Account shows the authenticated seller. The storefront URL renders as an
// external link option, which is never selectable by number.
func (c *Catalog) Account(ctx context.Context) view.Model {
	res := c.gw.Call(ctx, "whoami", "details", nil)

	var (
		text string
		rows [][]view.Option
	)
	if res.Success && res.User != nil {
		u := res.User
		text = fmt.Sprintf(
			"👤 *Account Info*\n- Name: %s\n- Email: %s\n- ID: `%s`\n- Currency: %s",
			u.Name, u.Email, u.ID, u.CurrencyType,
		)
		if u.URL != "" {
			rows = append(rows, view.Row(view.LinkBtn("🌐 Open Storefront", u.URL)))
		}
	} else {
		text = "⚠️ Error: " + orUnknown(res.Error)
	}

	rows = append(rows, view.Row(view.Btn("🔙 Back", token.Main())))

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}

// LicenseCheck verifies the license attached to a sale and offers the
// license management actions.
func (c *Catalog) LicenseCheck(ctx context.Context, id token.SaleID) view.Model {
	sres := c.gw.Call(ctx, "sales", "details", gateway.Params{"id": string(id)})
	if !sres.Success || sres.Sale == nil {
		return Failure(orUnknown(sres.Error), "🔙 Back to Sale", token.SaleDetail(id))
	}

	s := sres.Sale
	if s.LicenseKey == "" || s.ProductID == "" {
		return errView("No license on this sale.", "🔙 Back to Sale", token.SaleDetail(id))
	}

	lres := c.gw.Call(ctx, "licenses", "verify", gateway.Params{
		"product": s.ProductID,
		"key":     s.LicenseKey,
	})
	if !lres.Success || lres.Purchase == nil {
		return Failure(orUnknown(lres.Error), "🔙 Back to Sale", token.SaleDetail(id))
	}

	p := lres.Purchase
	disabled := p.LicenseDisabled.Bool()

	status := "🟢 ENABLED"
	toggleLabel := "🔴 Disable License"
	if disabled {
		status = "🔴 DISABLED"
		toggleLabel = "🟢 Enable License"
	}

	text := fmt.Sprintf(
		"🔑 *License Verification*\nStatus: %s\nUses: %d\nKey: `%s`\nEmail: %s",
		status, lres.Uses, p.LicenseKey, p.Email,
	)

	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(
				view.Btn(toggleLabel, token.LicenseToggle(id)),
				view.Btn("📉 Decr. Count", token.LicenseDecrement(id)),
			),
			view.Row(view.Btn("🔄 Rotate Key", token.LicenseRotateAsk(id))),
			view.Row(view.Btn("🔙 Back to Sale", token.SaleDetail(id))),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}
