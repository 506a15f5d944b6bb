package router

import (
	"context"
	"fmt"

	"storebot/pkg/flow"
	"storebot/pkg/gateway"
	"storebot/pkg/menu"
	"storebot/pkg/session"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// dispatch executes one parsed command and returns the next screen. Every
// branch is total: gateway failures come back as error screens.
func (r *Router) dispatch(ctx context.Context, st *session.State, cmd token.Command) view.Model {
	switch cmd.Kind {
	case token.KindMain:
		return r.catalog.MainMenu()
	case token.KindProducts:
		return r.catalog.Products(ctx)
	case token.KindSales:
		// "All sales" resets the sticky filter.
		st.SetFilter(session.SalesFilter{})
		return r.catalog.SalesList(ctx, st.Filter(), "")
	case token.KindPayouts:
		return r.catalog.Payouts(ctx, "")
	case token.KindWebhooks:
		return r.catalog.Webhooks(ctx)
	case token.KindAccount:
		return r.catalog.Account(ctx)

	case token.KindProductDetail:
		return r.catalog.ProductDetail(ctx, cmd.Product)
	case token.KindProductToggle:
		return r.toggleProduct(ctx, cmd)
	case token.KindProductDeleteAsk:
		return confirm(
			"⚠️ *DELETE PRODUCT?*\nThis will permanently remove the product and all associated data. This cannot be undone.",
			"🔥 YES, DELETE", token.ProductDeleteDo(cmd.Product),
			token.ProductDetail(cmd.Product),
		)
	case token.KindProductDeleteDo:
		return r.deleteProduct(ctx, cmd.Product)
	case token.KindProductSales:
		// A product-scoped entry point pins the filter to that product and
		// clears any email search.
		st.SetFilter(session.SalesFilter{ProductID: string(cmd.Product)})
		return r.catalog.SalesList(ctx, st.Filter(), "")

	case token.KindVariantCategories:
		return r.catalog.VariantCategories(ctx, cmd.Product)
	case token.KindVariants:
		return r.catalog.Variants(ctx, cmd.Product, cmd.Category)

	case token.KindSalesPage:
		// Pagination preserves the sticky filter.
		return r.catalog.SalesList(ctx, st.Filter(), cmd.Page)
	case token.KindSalesSearch:
		st.StartFlow(&session.Pending{Kind: session.FlowSearchSalesByEmail})
		return prompt(
			"🔍 *Search Sales*\n\nPlease reply with the *Customer Email*.",
			token.Sales(),
		)
	case token.KindSaleDetail:
		return r.catalog.SaleDetail(ctx, cmd.Sale)
	case token.KindRefundAsk:
		return confirm(
			"⚠️ *REFUND SALE?*\nThis will refund the customer. This action is irreversible.",
			"🔥 YES, REFUND", token.RefundDo(cmd.Sale),
			token.SaleDetail(cmd.Sale),
		)
	case token.KindRefundDo:
		return r.refundSale(ctx, cmd.Sale)
	case token.KindResendReceipt:
		return r.resendReceipt(ctx, cmd.Sale)
	case token.KindShipAsk:
		st.StartFlow(&session.Pending{Kind: session.FlowMarkShipped, SaleID: string(cmd.Sale)})
		return prompt(
			"🚚 *Mark as Shipped*\n\nPlease reply with the *Tracking URL* or number.",
			token.SaleDetail(cmd.Sale),
		)
	case token.KindSubscriberDetail:
		return r.catalog.SubscriberDetail(ctx, cmd.Subscriber, cmd.Sale)

	case token.KindPayoutsPage:
		return r.catalog.Payouts(ctx, cmd.Page)
	case token.KindPayoutDetail:
		return r.catalog.PayoutDetail(ctx, cmd.Payout)

	case token.KindDiscounts:
		return r.catalog.Discounts(ctx, cmd.Product)
	case token.KindDiscountDetail:
		return r.catalog.DiscountDetail(ctx, cmd.Product, cmd.Discount)
	case token.KindDiscountNew:
		st.StartFlow(&session.Pending{
			Kind:      session.FlowCreateDiscountName,
			ProductID: string(cmd.Product),
		})
		return prompt(
			"🎟️ *Create Discount*\n\nPlease reply with the *Code Name*.",
			token.Discounts(cmd.Product),
		)
	case token.KindDiscountType:
		return r.finalizeDiscount(ctx, st, cmd.DiscountType)
	case token.KindDiscountEdit:
		st.StartFlow(&session.Pending{
			Kind:       session.FlowEditDiscountName,
			ProductID:  string(cmd.Product),
			DiscountID: string(cmd.Discount),
		})
		return prompt(
			"📝 *Editing Discount*\n\nPlease reply with the new *Code Name*.\n(Type 'skip' to keep current)",
			token.DiscountDetail(cmd.Product, cmd.Discount),
		)
	case token.KindDiscountDeleteAsk:
		return confirm(
			"⚠️ *DELETE DISCOUNT?*\nThis will permanently remove this code.",
			"🔥 YES, DELETE", token.DiscountDeleteDo(cmd.Product, cmd.Discount),
			token.DiscountDetail(cmd.Product, cmd.Discount),
		)
	case token.KindDiscountDeleteDo:
		return r.deleteDiscount(ctx, cmd.Product, cmd.Discount)

	case token.KindWebhookNew:
		st.StartFlow(&session.Pending{Kind: session.FlowCreateWebhook, Resource: cmd.Resource})
		return prompt(
			fmt.Sprintf("📡 *Create Webhook [%s]*\n\nPlease reply with the *Destination URL*.", cmd.Resource),
			token.Webhooks(),
		)
	case token.KindWebhookDeleteAsk:
		return confirm(
			"⚠️ *DELETE WEBHOOK?*\nYou will stop receiving automated notifications at this URL.",
			"🔥 YES, DELETE", token.WebhookDeleteDo(cmd.Webhook),
			token.Webhooks(),
		)
	case token.KindWebhookDeleteDo:
		return r.deleteWebhook(ctx, cmd.Webhook)

	case token.KindFields:
		return r.catalog.CustomFields(ctx, cmd.Product)
	case token.KindFieldNew:
		st.StartFlow(&session.Pending{
			Kind:      session.FlowCreateCustomField,
			ProductID: string(cmd.Product),
		})
		return prompt(
			"📝 *Create Custom Field*\n\nPlease reply with the *Field Name*.",
			token.Fields(cmd.Product),
		)
	case token.KindFieldDelete:
		return r.deleteField(ctx, cmd.Product, cmd.FieldName)

	case token.KindLicenseCheck:
		return r.catalog.LicenseCheck(ctx, cmd.Sale)
	case token.KindLicenseToggle:
		return r.toggleLicense(ctx, cmd.Sale)
	case token.KindLicenseDecrement:
		return r.decrementLicense(ctx, cmd.Sale)
	case token.KindLicenseRotateAsk:
		return confirm(
			"⚠️ *ROTATE LICENSE KEY?*\nThe current key will be invalidated and a new one generated for the customer.",
			"🔄 YES, ROTATE", token.LicenseRotateDo(cmd.Sale),
			token.LicenseCheck(cmd.Sale),
		)
	case token.KindLicenseRotateDo:
		return r.rotateLicense(ctx, cmd.Sale)
	}

	// Parse only emits the kinds above; reaching here is a programming
	// error, not user input.
	return menu.SessionExpired()
}

// confirm is the destructive-action warning screen: a single confirm option
// carrying the "do" token, and a cancel returning to the entity detail.
// The ask step never touches the gateway.
func confirm(text, confirmLabel, doToken, cancelToken string) view.Model {
	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(view.Btn(confirmLabel, doToken)),
			view.Row(view.Btn("❌ Cancel", cancelToken)),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

// prompt is a flow-opening screen: instruction text plus a cancel option.
func prompt(text, cancelToken string) view.Model {
	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(view.Btn("❌ Cancel", cancelToken)),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func notice(text, backLabel, backToken string) view.Model {
	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(view.Btn(backLabel, backToken)),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func (r *Router) toggleProduct(ctx context.Context, cmd token.Command) view.Model {
	action := "enable"
	if cmd.Published {
		action = "disable"
	}
	res := r.gw.Call(ctx, "products", action, gateway.Params{"id": string(cmd.Product)})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.ProductDetail(cmd.Product))
	}
	return r.catalog.ProductDetail(ctx, cmd.Product)
}

func (r *Router) deleteProduct(ctx context.Context, id token.ProductID) view.Model {
	res := r.gw.Call(ctx, "products", "delete", gateway.Params{"id": string(id)})
	if !res.Success {
		return menu.Failure("Failed to delete: "+res.Error, "🔙 Back", token.ProductDetail(id))
	}
	return r.catalog.Products(ctx)
}

func (r *Router) refundSale(ctx context.Context, id token.SaleID) view.Model {
	res := r.gw.Call(ctx, "sales", "refund", gateway.Params{"id": string(id)})
	if !res.Success {
		return menu.Failure("Refund failed: "+res.Error, "🔙 Back", token.SaleDetail(id))
	}
	return r.catalog.SaleDetail(ctx, id)
}

func (r *Router) resendReceipt(ctx context.Context, id token.SaleID) view.Model {
	res := r.gw.Call(ctx, "sales", "resend-receipt", gateway.Params{"id": string(id)})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.SaleDetail(id))
	}
	return notice("✅ Receipt Resent", "🔙 Back to Sale", token.SaleDetail(id))
}

// finalizeDiscount completes the creation flow when the operator picks the
// discount type. A finalize token with no pending flow (expired session,
// restart) gets the recovery screen instead of a crash.
func (r *Router) finalizeDiscount(ctx context.Context, st *session.State, discountType string) view.Model {
	if st == nil || st.Pending == nil || st.Pending.Name == "" {
		return menu.SessionExpired()
	}

	p := st.Pending
	pid := token.ProductID(p.ProductID)
	res := r.gw.Call(ctx, "discounts", "create", gateway.Params{
		"product": p.ProductID,
		"name":    p.Name,
		"amount":  p.Amount,
		"type":    discountType,
		"limit":   flow.DefaultDiscountLimit,
	})
	st.ClearPending()

	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.Discounts(pid))
	}
	vm := r.catalog.Discounts(ctx, pid)
	vm.Text = "✅ Discount Created"
	return vm
}

func (r *Router) deleteDiscount(ctx context.Context, pid token.ProductID, did token.DiscountID) view.Model {
	res := r.gw.Call(ctx, "discounts", "delete", gateway.Params{
		"product": string(pid),
		"id":      string(did),
	})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.DiscountDetail(pid, did))
	}
	return r.catalog.Discounts(ctx, pid)
}

func (r *Router) deleteWebhook(ctx context.Context, id token.WebhookID) view.Model {
	res := r.gw.Call(ctx, "subscriptions", "delete", gateway.Params{"id": string(id)})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.Webhooks())
	}
	return r.catalog.Webhooks(ctx)
}

func (r *Router) deleteField(ctx context.Context, pid token.ProductID, name string) view.Model {
	res := r.gw.Call(ctx, "custom-fields", "delete", gateway.Params{
		"product": string(pid),
		"name":    name,
	})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.Fields(pid))
	}
	return r.catalog.CustomFields(ctx, pid)
}

// licenseForSale fetches the sale and returns its license coordinates.
func (r *Router) licenseForSale(ctx context.Context, id token.SaleID) (productID, key string, fail *view.Model) {
	res := r.gw.Call(ctx, "sales", "details", gateway.Params{"id": string(id)})
	if !res.Success || res.Sale == nil {
		vm := menu.Failure(res.Error, "🔙 Back", token.SaleDetail(id))
		return "", "", &vm
	}
	if res.Sale.LicenseKey == "" || res.Sale.ProductID == "" {
		vm := notice("❌ No license on this sale.", "🔙 Back", token.SaleDetail(id))
		return "", "", &vm
	}
	return res.Sale.ProductID, res.Sale.LicenseKey, nil
}

// toggleLicense reads the current license state and issues the opposite
// action. The read and the write are separate remote calls, so a concurrent
// external change can race the toggle; this is accepted best-effort
// behavior, not a transaction.
func (r *Router) toggleLicense(ctx context.Context, id token.SaleID) view.Model {
	productID, key, fail := r.licenseForSale(ctx, id)
	if fail != nil {
		return *fail
	}

	verify := r.gw.Call(ctx, "licenses", "verify", gateway.Params{"product": productID, "key": key})
	if !verify.Success || verify.Purchase == nil {
		return menu.Failure("Failed to toggle: "+verify.Error, "🔙 Back", token.LicenseCheck(id))
	}

	action := "disable"
	if verify.Purchase.LicenseDisabled.Bool() {
		action = "enable"
	}
	res := r.gw.Call(ctx, "licenses", action, gateway.Params{"product": productID, "key": key})
	if !res.Success {
		return menu.Failure("Failed to toggle: "+res.Error, "🔙 Back", token.LicenseCheck(id))
	}
	return notice(fmt.Sprintf("✅ License %sd.", action), "🔙 Back", token.LicenseCheck(id))
}

func (r *Router) decrementLicense(ctx context.Context, id token.SaleID) view.Model {
	productID, key, fail := r.licenseForSale(ctx, id)
	if fail != nil {
		return *fail
	}
	res := r.gw.Call(ctx, "licenses", "decrement", gateway.Params{"product": productID, "key": key})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.LicenseCheck(id))
	}
	return notice("📉 Usage count decremented.", "🔙 Back", token.LicenseCheck(id))
}

func (r *Router) rotateLicense(ctx context.Context, id token.SaleID) view.Model {
	productID, key, fail := r.licenseForSale(ctx, id)
	if fail != nil {
		return *fail
	}
	res := r.gw.Call(ctx, "licenses", "rotate", gateway.Params{"product": productID, "key": key})
	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.LicenseCheck(id))
	}
	return notice("🔄 License key rotated successfully.", "🔙 Back", token.LicenseCheck(id))
}
