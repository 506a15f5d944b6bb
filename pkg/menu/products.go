package menu

import (
	"context"
	"fmt"

	"storebot/pkg/gateway"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// Products lists the catalog with publish state per item.
func (c *Catalog) Products(ctx context.Context) view.Model {
	res := c.gw.Call(ctx, "products", "list", nil)
	if !res.Success {
		return Failure("fetching products: "+orUnknown(res.Error), "🔙 Back", token.Main())
	}

	var rows [][]view.Option
	if len(res.Products) == 0 {
		rows = append(rows, view.Row(view.Btn("🔙 Back to Main Menu", token.Main())))
		return view.Model{
			Text:      "📦 *Product Inventory*\n\nNo products yet.",
			Options:   rows,
			Mode:      view.ModeReplace,
			Interrupt: true,
		}
	}

	for _, p := range res.Products {
		label := fmt.Sprintf("%s %s", onOff(p.Published.Bool()), truncate(p.Name, 40))
		rows = append(rows, view.Row(view.Btn(label, token.ProductDetail(token.ProductID(p.ID)))))
	}
	rows = append(rows, view.Row(view.Btn("🔙 Back to Main Menu", token.Main())))

	return view.Model{
		Text:      "📦 *Product Inventory*\n\nSelect a product to inspect pricing, toggle availability or manage its discounts and fields.",
		Options:   rows,
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

// ProductDetail shows one product with its management actions.
func (c *Catalog) ProductDetail(ctx context.Context, id token.ProductID) view.Model {
	res := c.gw.Call(ctx, "products", "details", gateway.Params{"id": string(id)})
	if !res.Success || res.Product == nil {
		return Failure(orUnknown(res.Error), "🔙 Back", token.Products())
	}

	p := res.Product
	published := p.Published.Bool()

	desc := p.Description
	if desc == "" {
		desc = "No description."
	}

	text := fmt.Sprintf(
		"🛠️ *Product Management*\n\n📦 *%s*\nID: `%s`\n💰 Price: %s\n📉 Sales: %d\n%s\n🔗 %s\n\n%s",
		p.Name, p.ID, p.FormattedPrice, p.SalesCount,
		map[bool]string{true: "🟢 Published", false: "🔴 Unpublished"}[published],
		p.ShortURL, truncate(desc, 200),
	)

	toggleLabel := "🟢 Publish"
	if published {
		toggleLabel = "🔴 Unpublish"
	}

	return view.Model{
		Text: text,
		Options: [][]view.Option{
			view.Row(
				view.Btn(toggleLabel, token.ProductToggle(id, published)),
				view.Btn("🎨 Variants", token.VariantCategories(id)),
			),
			view.Row(
				view.Btn("🎟️ Discounts", token.Discounts(id)),
				view.Btn("📝 Custom Fields", token.Fields(id)),
			),
			view.Row(
				view.Btn("🛒 View Sales", token.ProductSales(id)),
				view.Btn("🗑️ Delete", token.ProductDeleteAsk(id)),
			),
			view.Row(view.Btn("🔙 Back to Products", token.Products())),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

// VariantCategories lists a product's variant categories.
func (c *Catalog) VariantCategories(ctx context.Context, pid token.ProductID) view.Model {
	res := c.gw.Call(ctx, "variant-categories", "list", gateway.Params{"product": string(pid)})
	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", token.ProductDetail(pid))
	}

	var rows [][]view.Option
	for _, vc := range res.VariantCategories {
		rows = append(rows, view.Row(
			view.Btn("🎨 "+vc.Title, token.Variants(pid, token.CategoryID(vc.ID))),
		))
	}
	text := "🎨 *Product Variants*\n\nCategories let customers pick options like size or license tier."
	if len(res.VariantCategories) == 0 {
		text = "🎨 *Product Variants*\n\nNo variant categories on this product."
	}
	rows = append(rows, view.Row(view.Btn("🔙 Back to Product", token.ProductDetail(pid))))

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}

// Variants lists the options inside one category.
func (c *Catalog) Variants(ctx context.Context, pid token.ProductID, cid token.CategoryID) view.Model {
	res := c.gw.Call(ctx, "variants", "list", gateway.Params{
		"product":  string(pid),
		"category": string(cid),
	})
	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", token.VariantCategories(pid))
	}

	var rows [][]view.Option
	for _, v := range res.Variants {
		label := fmt.Sprintf("%s (%+d)", v.Name, v.PriceDifferenceCents)
		rows = append(rows, view.Row(view.Btn(label, token.Noop())))
	}
	text := "🎭 *Variant Options*\n\nOptions in this category with their price differentials."
	if len(res.Variants) == 0 {
		text = "🎭 *Variant Options*\n\nNo variants in this category."
	}
	rows = append(rows, view.Row(view.Btn("🔙 Back to Categories", token.VariantCategories(pid))))

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}

// CustomFields lists the extra checkout questions on a product.
func (c *Catalog) CustomFields(ctx context.Context, pid token.ProductID) view.Model {
	res := c.gw.Call(ctx, "custom-fields", "list", gateway.Params{"product": string(pid)})
	if !res.Success {
		return Failure(orUnknown(res.Error), "🔙 Back", token.ProductDetail(pid))
	}

	var rows [][]view.Option
	for _, f := range res.CustomFields {
		label := "📝 " + f.Name
		if f.Required.Bool() {
			label += " (required)"
		}
		rows = append(rows, view.Row(
			view.Btn(label, token.Noop()),
			view.Btn("🗑️", token.FieldDelete(pid, f.Name)),
		))
	}
	text := "📝 *Checkout Fields*\n\nExtra information requested from customers during purchase."
	if len(res.CustomFields) == 0 {
		text = "📝 *Checkout Fields*\n\nNo custom fields on this product."
	}
	rows = append(rows,
		view.Row(view.Btn("➕ Add Custom Field", token.FieldNew(pid))),
		view.Row(view.Btn("🔙 Back to Product", token.ProductDetail(pid))),
	)

	return view.Model{Text: text, Options: rows, Mode: view.ModeReplace, Interrupt: true}
}
