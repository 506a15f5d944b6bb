package menu

import (
	"context"
	"fmt"
	"strings"

	"storebot/pkg/gateway"
	"storebot/pkg/session"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// SalesList shows the transaction list under the sticky filter. The back
// target depends on how the list was reached: product-filtered lists return
// to the product, unfiltered lists return to the main menu.
func (c *Catalog) SalesList(ctx context.Context, filter session.SalesFilter, page string) view.Model {
	params := gateway.Params{}
	if filter.Email != "" {
		params["email"] = filter.Email
	}
	if filter.ProductID != "" {
		params["product_id"] = filter.ProductID
	}
	if page != "" {
		params["page"] = page
	}

	res := c.gw.Call(ctx, "sales", "list", params)

	productBack := token.Main()
	emptyBack := token.Sales()
	if filter.ProductID != "" {
		productBack = token.ProductDetail(token.ProductID(filter.ProductID))
		emptyBack = productBack
	}

	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", productBack)
	}
	if len(res.Sales) == 0 {
		return view.Model{
			Text: "🔍 *No Records Found*\n\nNo transactions match the current criteria.",
			Options: [][]view.Option{
				view.Row(view.Btn("🔙 Back", emptyBack)),
			},
			Mode:      view.ModeReplace,
			Interrupt: true,
		}
	}

	title := "💸 *Transaction Ledger*\n\nRecent purchases. Select one for full details."
	switch {
	case filter.Email != "":
		title = fmt.Sprintf("🔎 *Search Results*\n\nTransactions matching `%s`.", filter.Email)
	case filter.ProductID != "":
		title = "🛒 *Product Sales*\n\nTransactions for the selected product."
	}

	var rows [][]view.Option
	for _, s := range res.Sales {
		label := fmt.Sprintf("%s - %s", s.Email, truncate(s.ProductName, 30))
		rows = append(rows, view.Row(view.Btn(label, token.SaleDetail(token.SaleID(s.ID)))))
	}

	nav := view.Row(view.Btn("🔙 Back", productBack))
	if res.NextPageKey != "" {
		nav = append(nav, view.Btn("➡️ Next", token.SalesPage(res.NextPageKey)))
	}
	if page != "" {
		first := token.Sales()
		if filter.ProductID != "" {
			first = token.ProductSales(token.ProductID(filter.ProductID))
		}
		nav = append(nav, view.Btn("🏠 First", first))
	}
	rows = append(rows, nav)

	return view.Model{Text: title, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}

// SaleDetail shows one transaction with its management actions. Action rows
// vary with the sale: shipping for physical goods, license tools when a key
// exists, subscriber info for recurring billing.
func (c *Catalog) SaleDetail(ctx context.Context, id token.SaleID) view.Model {
	res := c.gw.Call(ctx, "sales", "details", gateway.Params{"id": string(id)})
	if !res.Success || res.Sale == nil {
		return Failure(orUnknown(res.Error), "🔙 Back", token.Sales())
	}

	s := res.Sale
	var rows [][]view.Option

	row1 := view.Row(view.Btn("💸 Refund", token.RefundAsk(id)))
	if s.IsProductPhysical.Bool() {
		row1 = append(row1, view.Btn("🚚 Mark Shipped", token.ShipAsk(id)))
	}
	rows = append(rows, row1)

	row2 := view.Row(view.Btn("📩 Resend Receipt", token.ResendReceipt(id)))
	if s.LicenseKey != "" {
		row2 = append(row2, view.Btn("🔑 Check License", token.LicenseCheck(id)))
	}
	rows = append(rows, row2)

	if s.SubscriptionID != "" {
		rows = append(rows, view.Row(
			view.Btn("👤 Subscriber Info", token.SubscriberDetail(token.SubscriberID(s.SubscriptionID), id)),
		))
	}

	rows = append(rows, view.Row(
		view.Btn("🔙 Back to Sales", token.Sales()),
		view.Btn("🏠 Main Menu", token.Main()),
	))

	var b []string
	b = append(b,
		fmt.Sprintf("📦 *%s*", s.ProductName),
		fmt.Sprintf("💰 Price: %s", s.FormattedTotalPrice),
		fmt.Sprintf("📅 %s", s.Daystamp),
	)
	switch {
	case s.Refunded.Bool():
		b = append(b, "💸 REFUNDED")
	case s.PartiallyRefunded.Bool():
		b = append(b, "💸 PARTIAL REFUND")
	default:
		b = append(b, "💸 Refunded: No")
	}
	if s.Disputed.Bool() {
		if s.DisputeWon.Bool() {
			b = append(b, "✅ DISPUTE WON")
		} else {
			b = append(b, "⚠️ DISPUTED")
		}
	}

	if s.IsRecurringBilling.Bool() {
		state := "ACTIVE"
		if s.Cancelled.Bool() {
			state = "CANCELLED"
		} else if s.Ended.Bool() {
			state = "ENDED"
		}
		b = append(b, "\n🔄 SUBSCRIPTION "+state)
		if s.SubscriptionID != "" {
			b = append(b, fmt.Sprintf("🆔 Sub ID: `%s`", s.SubscriptionID))
		}
	}

	b = append(b, fmt.Sprintf("\n👤 Customer: `%s`", s.Email))
	if s.PurchaseEmail != "" && s.PurchaseEmail != s.Email {
		b = append(b, "🎁 Purchaser: "+s.PurchaseEmail)
	}
	if s.LicenseKey != "" {
		b = append(b, fmt.Sprintf("🔑 License: `%s`", s.LicenseKey))
	}
	if s.VariantsAndQuantity != "" {
		b = append(b, "🎨 Variant: "+s.VariantsAndQuantity)
	}

	if s.IsProductPhysical.Bool() {
		if s.Shipped.Bool() {
			b = append(b, "🚚 ✅ Shipped")
		} else {
			b = append(b, "🚚 📦 Processing")
		}
		if s.TrackingURL != "" {
			b = append(b, "📍 Track: "+s.TrackingURL)
		}
		if s.StreetAddress != "" {
			b = append(b, fmt.Sprintf("🏠 Address: %s, %s, %s, %s", s.StreetAddress, s.City, s.ZipCode, s.Country))
		}
	}

	b = append(b, fmt.Sprintf("\n🆔 ID: `%s`", s.ID))

	return view.Model{
		Text:      "📜 *Transaction Details*\n\n" + strings.Join(b, "\n"),
		Options:   rows,
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

// SubscriberDetail shows the recurring-billing profile behind a sale.
func (c *Catalog) SubscriberDetail(ctx context.Context, sub token.SubscriberID, sale token.SaleID) view.Model {
	res := c.gw.Call(ctx, "subscribers", "details", gateway.Params{"id": string(sub)})

	back := view.Row(view.Btn("🔙 Back to Sale", token.SaleDetail(sale)))

	if !res.Success || res.Subscriber == nil {
		return view.Model{
			Text:      "⚠️ Error: " + orUnknown(res.Error),
			Options:   [][]view.Option{back},
			Mode:      view.ModeReplace,
			Interrupt: true,
		}
	}

	s := res.Subscriber
	ended := s.EndedAt
	if ended == "" {
		ended = "Active"
	}
	text := fmt.Sprintf(
		"👤 *Subscriber Profile*\nID: `%s`\nEmail: %s\nStatus: %s\nStarted: %s\n\nRecurrence: %s\nPaid: %d\nEnded: %s",
		s.ID, s.UserEmail, s.Status, s.CreatedAt, s.Recurrence, s.ChargeOccurrenceCount, ended,
	)

	return view.Model{
		Text:      text,
		Options:   [][]view.Option{back},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}
