// Package token defines the colon-delimited action grammar that ties
// screens together: every selectable option carries a token, and the router
// parses inbound tokens exactly once, at this boundary, into a closed typed
// command. Entity ids are distinct types so handlers cannot mix them up.
// Ids must never contain the ':' delimiter.
package token

import "strings"

// Namespace is the fixed first segment of every token.
const Namespace = "sb"

// Typed entity identifiers.
type (
	ProductID    string
	SaleID       string
	DiscountID   string
	WebhookID    string
	SubscriberID string
	PayoutID     string
	CategoryID   string
)

// Kind enumerates every command the router understands.
type Kind int

const (
	KindInvalid Kind = iota

	// Top-level navigation. Dispatching any of these abandons an active
	// pending flow.
	KindMain
	KindProducts
	KindSales
	KindPayouts
	KindWebhooks
	KindAccount

	KindProductDetail
	KindProductToggle
	KindProductDeleteAsk
	KindProductDeleteDo
	KindProductSales

	KindVariantCategories
	KindVariants

	KindSalesPage
	KindSalesSearch
	KindSaleDetail
	KindRefundAsk
	KindRefundDo
	KindResendReceipt
	KindShipAsk
	KindSubscriberDetail

	KindPayoutsPage
	KindPayoutDetail

	KindDiscounts
	KindDiscountDetail
	KindDiscountNew
	KindDiscountType
	KindDiscountEdit
	KindDiscountDeleteAsk
	KindDiscountDeleteDo

	KindWebhookNew
	KindWebhookDeleteAsk
	KindWebhookDeleteDo

	KindFields
	KindFieldNew
	KindFieldDelete

	KindLicenseCheck
	KindLicenseToggle
	KindLicenseDecrement
	KindLicenseRotateAsk
	KindLicenseRotateDo

	KindNoop
)

// Command is the parsed form of a token. Only the fields relevant to the
// Kind are populated.
type Command struct {
	Kind Kind

	Product    ProductID
	Sale       SaleID
	Discount   DiscountID
	Webhook    WebhookID
	Subscriber SubscriberID
	Payout     PayoutID
	Category   CategoryID

	// Page is an opaque pagination cursor.
	Page string
	// Resource is a webhook resource kind.
	Resource string
	// FieldName names a custom field.
	FieldName string
	// DiscountType is "percent" or "cents".
	DiscountType string
	// Published carries the current publish state for a toggle.
	Published bool
}

// IsNavigation reports whether the command is a top-level navigation target.
func (c Command) IsNavigation() bool {
	switch c.Kind {
	case KindMain, KindProducts, KindSales, KindPayouts, KindWebhooks, KindAccount:
		return true
	}
	return false
}

func join(segs ...string) string {
	return Namespace + ":" + strings.Join(segs, ":")
}

// Builders. Menu builders use these so every emitted token round-trips
// through Parse.

func Main() string     { return join("main") }
func Products() string { return join("products") }
func Sales() string    { return join("sales") }
func Payouts() string  { return join("payouts") }
func Webhooks() string { return join("webhooks") }
func Account() string  { return join("account") }
func Noop() string     { return join("noop") }

func ProductDetail(id ProductID) string { return join("product", string(id)) }
func ProductToggle(id ProductID, published bool) string {
	state := "false"
	if published {
		state = "true"
	}
	return join("product", "toggle", string(id), state)
}
func ProductDeleteAsk(id ProductID) string { return join("product", "delete", "ask", string(id)) }
func ProductDeleteDo(id ProductID) string  { return join("product", "delete", "do", string(id)) }
func ProductSales(id ProductID) string     { return join("product", "sales", string(id)) }

func VariantCategories(p ProductID) string { return join("variants", string(p)) }
func Variants(p ProductID, c CategoryID) string {
	return join("variants", string(p), string(c))
}

func SalesPage(page string) string { return join("sales", "page", page) }
func SalesSearch() string          { return join("sales", "search") }

func SaleDetail(id SaleID) string   { return join("sale", string(id)) }
func RefundAsk(id SaleID) string    { return join("sale", "refund", "ask", string(id)) }
func RefundDo(id SaleID) string     { return join("sale", "refund", "do", string(id)) }
func ResendReceipt(id SaleID) string { return join("sale", "receipt", string(id)) }
func ShipAsk(id SaleID) string      { return join("sale", "ship", string(id)) }

func SubscriberDetail(sub SubscriberID, sale SaleID) string {
	return join("subscriber", string(sub), string(sale))
}

func PayoutsPage(page string) string  { return join("payouts", "page", page) }
func PayoutDetail(id PayoutID) string { return join("payout", string(id)) }

func Discounts(p ProductID) string { return join("discounts", string(p)) }
func DiscountDetail(p ProductID, d DiscountID) string {
	return join("discount", string(p), string(d))
}
func DiscountNew(p ProductID) string   { return join("discount", "new", string(p)) }
func DiscountType(kind string) string  { return join("discount", "type", kind) }
func DiscountEdit(p ProductID, d DiscountID) string {
	return join("discount", "edit", string(p), string(d))
}
func DiscountDeleteAsk(p ProductID, d DiscountID) string {
	return join("discount", "delete", "ask", string(p), string(d))
}
func DiscountDeleteDo(p ProductID, d DiscountID) string {
	return join("discount", "delete", "do", string(p), string(d))
}

func WebhookNew(resource string) string    { return join("webhook", "new", resource) }
func WebhookDeleteAsk(id WebhookID) string { return join("webhook", "delete", "ask", string(id)) }
func WebhookDeleteDo(id WebhookID) string  { return join("webhook", "delete", "do", string(id)) }

func Fields(p ProductID) string   { return join("fields", string(p)) }
func FieldNew(p ProductID) string { return join("fields", "new", string(p)) }
func FieldDelete(p ProductID, name string) string {
	return join("fields", "delete", string(p), name)
}

func LicenseCheck(id SaleID) string     { return join("license", "check", string(id)) }
func LicenseToggle(id SaleID) string    { return join("license", "toggle", string(id)) }
func LicenseDecrement(id SaleID) string { return join("license", "decrement", string(id)) }
func LicenseRotateAsk(id SaleID) string { return join("license", "rotate", "ask", string(id)) }
func LicenseRotateDo(id SaleID) string  { return join("license", "rotate", "do", string(id)) }

// Parse decodes a token into a typed command. The bool is false for text
// outside the namespace and for unknown or malformed commands; such text is
// not for this system and falls through to the host's other handlers.
// Multi-segment command words win over id interpretation of the same
// position (longest-prefix match), so "sb:sale:refund:ask:X" is a refund
// confirmation, never a detail view of a sale called "refund".
func Parse(text string) (Command, bool) {
	segs := strings.Split(text, ":")
	if len(segs) < 2 || segs[0] != Namespace {
		return Command{}, false
	}

	rest := segs[2:]
	switch segs[1] {
	case "main":
		return cmd(Command{Kind: KindMain}, len(rest) == 0)
	case "products":
		return cmd(Command{Kind: KindProducts}, len(rest) == 0)
	case "payouts":
		if len(rest) == 0 {
			return Command{Kind: KindPayouts}, true
		}
		if len(rest) == 2 && rest[0] == "page" {
			return Command{Kind: KindPayoutsPage, Page: rest[1]}, true
		}
	case "webhooks":
		return cmd(Command{Kind: KindWebhooks}, len(rest) == 0)
	case "account":
		return cmd(Command{Kind: KindAccount}, len(rest) == 0)
	case "noop":
		return cmd(Command{Kind: KindNoop}, len(rest) == 0)

	case "sales":
		if len(rest) == 0 {
			return Command{Kind: KindSales}, true
		}
		if len(rest) == 2 && rest[0] == "page" {
			return Command{Kind: KindSalesPage, Page: rest[1]}, true
		}
		if len(rest) == 1 && rest[0] == "search" {
			return Command{Kind: KindSalesSearch}, true
		}

	case "product":
		switch {
		case len(rest) == 3 && rest[0] == "toggle":
			return Command{
				Kind:      KindProductToggle,
				Product:   ProductID(rest[1]),
				Published: rest[2] == "true",
			}, true
		case len(rest) == 3 && rest[0] == "delete" && rest[1] == "ask":
			return Command{Kind: KindProductDeleteAsk, Product: ProductID(rest[2])}, true
		case len(rest) == 3 && rest[0] == "delete" && rest[1] == "do":
			return Command{Kind: KindProductDeleteDo, Product: ProductID(rest[2])}, true
		case len(rest) == 2 && rest[0] == "sales":
			return Command{Kind: KindProductSales, Product: ProductID(rest[1])}, true
		case len(rest) == 1:
			return Command{Kind: KindProductDetail, Product: ProductID(rest[0])}, true
		}

	case "variants":
		switch len(rest) {
		case 1:
			return Command{Kind: KindVariantCategories, Product: ProductID(rest[0])}, true
		case 2:
			return Command{
				Kind:     KindVariants,
				Product:  ProductID(rest[0]),
				Category: CategoryID(rest[1]),
			}, true
		}

	case "sale":
		switch {
		case len(rest) == 3 && rest[0] == "refund" && rest[1] == "ask":
			return Command{Kind: KindRefundAsk, Sale: SaleID(rest[2])}, true
		case len(rest) == 3 && rest[0] == "refund" && rest[1] == "do":
			return Command{Kind: KindRefundDo, Sale: SaleID(rest[2])}, true
		case len(rest) == 2 && rest[0] == "receipt":
			return Command{Kind: KindResendReceipt, Sale: SaleID(rest[1])}, true
		case len(rest) == 2 && rest[0] == "ship":
			return Command{Kind: KindShipAsk, Sale: SaleID(rest[1])}, true
		case len(rest) == 1:
			return Command{Kind: KindSaleDetail, Sale: SaleID(rest[0])}, true
		}

	case "subscriber":
		if len(rest) == 2 {
			return Command{
				Kind:       KindSubscriberDetail,
				Subscriber: SubscriberID(rest[0]),
				Sale:       SaleID(rest[1]),
			}, true
		}

	case "payout":
		if len(rest) == 1 {
			return Command{Kind: KindPayoutDetail, Payout: PayoutID(rest[0])}, true
		}

	case "discounts":
		if len(rest) == 1 {
			return Command{Kind: KindDiscounts, Product: ProductID(rest[0])}, true
		}

	case "discount":
		switch {
		case len(rest) == 2 && rest[0] == "new":
			return Command{Kind: KindDiscountNew, Product: ProductID(rest[1])}, true
		case len(rest) == 2 && rest[0] == "type":
			return Command{Kind: KindDiscountType, DiscountType: rest[1]}, true
		case len(rest) == 3 && rest[0] == "edit":
			return Command{
				Kind:     KindDiscountEdit,
				Product:  ProductID(rest[1]),
				Discount: DiscountID(rest[2]),
			}, true
		case len(rest) == 4 && rest[0] == "delete" && rest[1] == "ask":
			return Command{
				Kind:     KindDiscountDeleteAsk,
				Product:  ProductID(rest[2]),
				Discount: DiscountID(rest[3]),
			}, true
		case len(rest) == 4 && rest[0] == "delete" && rest[1] == "do":
			return Command{
				Kind:     KindDiscountDeleteDo,
				Product:  ProductID(rest[2]),
				Discount: DiscountID(rest[3]),
			}, true
		case len(rest) == 2:
			return Command{
				Kind:     KindDiscountDetail,
				Product:  ProductID(rest[0]),
				Discount: DiscountID(rest[1]),
			}, true
		}

	case "webhook":
		switch {
		case len(rest) == 2 && rest[0] == "new":
			return Command{Kind: KindWebhookNew, Resource: rest[1]}, true
		case len(rest) == 3 && rest[0] == "delete" && rest[1] == "ask":
			return Command{Kind: KindWebhookDeleteAsk, Webhook: WebhookID(rest[2])}, true
		case len(rest) == 3 && rest[0] == "delete" && rest[1] == "do":
			return Command{Kind: KindWebhookDeleteDo, Webhook: WebhookID(rest[2])}, true
		}

	case "fields":
		switch {
		case len(rest) == 2 && rest[0] == "new":
			return Command{Kind: KindFieldNew, Product: ProductID(rest[1])}, true
		case len(rest) == 3 && rest[0] == "delete":
			return Command{
				Kind:      KindFieldDelete,
				Product:   ProductID(rest[1]),
				FieldName: rest[2],
			}, true
		case len(rest) == 1:
			return Command{Kind: KindFields, Product: ProductID(rest[0])}, true
		}

	case "license":
		if len(rest) == 2 {
			switch rest[0] {
			case "check":
				return Command{Kind: KindLicenseCheck, Sale: SaleID(rest[1])}, true
			case "toggle":
				return Command{Kind: KindLicenseToggle, Sale: SaleID(rest[1])}, true
			case "decrement":
				return Command{Kind: KindLicenseDecrement, Sale: SaleID(rest[1])}, true
			}
		}
		if len(rest) == 3 && rest[0] == "rotate" {
			switch rest[1] {
			case "ask":
				return Command{Kind: KindLicenseRotateAsk, Sale: SaleID(rest[2])}, true
			case "do":
				return Command{Kind: KindLicenseRotateDo, Sale: SaleID(rest[2])}, true
			}
		}
	}

	return Command{}, false
}

func cmd(c Command, ok bool) (Command, bool) {
	if !ok {
		return Command{}, false
	}
	return c, true
}

// InNamespace reports whether text carries the namespace marker, whether or
// not it parses to a known command.
func InNamespace(text string) bool {
	return strings.HasPrefix(text, Namespace+":")
}
