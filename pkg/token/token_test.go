package token

import "testing"

func TestParseRoundTripsBuilders(t *testing.T) {
	cases := []struct {
		text string
		want Command
	}{
		{Main(), Command{Kind: KindMain}},
		{Products(), Command{Kind: KindProducts}},
		{Sales(), Command{Kind: KindSales}},
		{Payouts(), Command{Kind: KindPayouts}},
		{Webhooks(), Command{Kind: KindWebhooks}},
		{Account(), Command{Kind: KindAccount}},
		{Noop(), Command{Kind: KindNoop}},
		{ProductDetail("p1"), Command{Kind: KindProductDetail, Product: "p1"}},
		{ProductToggle("p1", true), Command{Kind: KindProductToggle, Product: "p1", Published: true}},
		{ProductToggle("p1", false), Command{Kind: KindProductToggle, Product: "p1"}},
		{ProductDeleteAsk("p1"), Command{Kind: KindProductDeleteAsk, Product: "p1"}},
		{ProductDeleteDo("p1"), Command{Kind: KindProductDeleteDo, Product: "p1"}},
		{ProductSales("p1"), Command{Kind: KindProductSales, Product: "p1"}},
		{VariantCategories("p1"), Command{Kind: KindVariantCategories, Product: "p1"}},
		{Variants("p1", "c1"), Command{Kind: KindVariants, Product: "p1", Category: "c1"}},
		{SalesPage("pk2"), Command{Kind: KindSalesPage, Page: "pk2"}},
		{SalesSearch(), Command{Kind: KindSalesSearch}},
		{SaleDetail("s1"), Command{Kind: KindSaleDetail, Sale: "s1"}},
		{RefundAsk("s1"), Command{Kind: KindRefundAsk, Sale: "s1"}},
		{RefundDo("s1"), Command{Kind: KindRefundDo, Sale: "s1"}},
		{ResendReceipt("s1"), Command{Kind: KindResendReceipt, Sale: "s1"}},
		{ShipAsk("s1"), Command{Kind: KindShipAsk, Sale: "s1"}},
		{SubscriberDetail("sub1", "s1"), Command{Kind: KindSubscriberDetail, Subscriber: "sub1", Sale: "s1"}},
		{PayoutsPage("pk3"), Command{Kind: KindPayoutsPage, Page: "pk3"}},
		{PayoutDetail("po1"), Command{Kind: KindPayoutDetail, Payout: "po1"}},
		{Discounts("p1"), Command{Kind: KindDiscounts, Product: "p1"}},
		{DiscountDetail("p1", "d1"), Command{Kind: KindDiscountDetail, Product: "p1", Discount: "d1"}},
		{DiscountNew("p1"), Command{Kind: KindDiscountNew, Product: "p1"}},
		{DiscountType("percent"), Command{Kind: KindDiscountType, DiscountType: "percent"}},
		{DiscountEdit("p1", "d1"), Command{Kind: KindDiscountEdit, Product: "p1", Discount: "d1"}},
		{DiscountDeleteAsk("p1", "d1"), Command{Kind: KindDiscountDeleteAsk, Product: "p1", Discount: "d1"}},
		{DiscountDeleteDo("p1", "d1"), Command{Kind: KindDiscountDeleteDo, Product: "p1", Discount: "d1"}},
		{WebhookNew("sale"), Command{Kind: KindWebhookNew, Resource: "sale"}},
		{WebhookDeleteAsk("w1"), Command{Kind: KindWebhookDeleteAsk, Webhook: "w1"}},
		{WebhookDeleteDo("w1"), Command{Kind: KindWebhookDeleteDo, Webhook: "w1"}},
		{Fields("p1"), Command{Kind: KindFields, Product: "p1"}},
		{FieldNew("p1"), Command{Kind: KindFieldNew, Product: "p1"}},
		{FieldDelete("p1", "Phone"), Command{Kind: KindFieldDelete, Product: "p1", FieldName: "Phone"}},
		{LicenseCheck("s1"), Command{Kind: KindLicenseCheck, Sale: "s1"}},
		{LicenseToggle("s1"), Command{Kind: KindLicenseToggle, Sale: "s1"}},
		{LicenseDecrement("s1"), Command{Kind: KindLicenseDecrement, Sale: "s1"}},
		{LicenseRotateAsk("s1"), Command{Kind: KindLicenseRotateAsk, Sale: "s1"}},
		{LicenseRotateDo("s1"), Command{Kind: KindLicenseRotateDo, Sale: "s1"}},
	}

	for _, tc := range cases {
		got, ok := Parse(tc.text)
		if !ok {
			t.Fatalf("Parse(%q) not recognized", tc.text)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestParseCommandWordsWinOverIDs(t *testing.T) {
	// A sale detail token for an id that collides with a command word must
	// not shadow the longer command form.
	got, ok := Parse("sb:sale:refund:ask:s9")
	if !ok || got.Kind != KindRefundAsk || got.Sale != "s9" {
		t.Fatalf("expected refund ask for s9, got %+v (ok=%v)", got, ok)
	}

	got, ok = Parse("sb:sale:refund")
	if !ok || got.Kind != KindSaleDetail || got.Sale != "refund" {
		t.Fatalf("expected sale detail for literal id, got %+v (ok=%v)", got, ok)
	}

	got, ok = Parse("sb:product:sales:p3")
	if !ok || got.Kind != KindProductSales || got.Product != "p3" {
		t.Fatalf("expected product sales, got %+v (ok=%v)", got, ok)
	}
}

func TestParseRejectsForeignAndMalformedText(t *testing.T) {
	for _, text := range []string{
		"",
		"hello",
		"3",
		"other:main",
		"sb",
		"sb:unknown",
		"sb:main:extra",
		"sb:sale",
		"sb:discount:delete:ask:p1",
		"sb:license:rotate:maybe:s1",
	} {
		if got, ok := Parse(text); ok {
			t.Fatalf("Parse(%q) unexpectedly recognized as %+v", text, got)
		}
	}
}

func TestInNamespace(t *testing.T) {
	if !InNamespace("sb:anything:at:all") {
		t.Fatal("expected namespaced text to be recognized")
	}
	if InNamespace("sbx:main") || InNamespace("hello") || InNamespace("sb") {
		t.Fatal("expected foreign text to be rejected")
	}
}

func TestIsNavigation(t *testing.T) {
	nav := []Command{
		{Kind: KindMain}, {Kind: KindProducts}, {Kind: KindSales},
		{Kind: KindPayouts}, {Kind: KindWebhooks}, {Kind: KindAccount},
	}
	for _, c := range nav {
		if !c.IsNavigation() {
			t.Fatalf("expected %v to be navigation", c.Kind)
		}
	}
	if (Command{Kind: KindSaleDetail}).IsNavigation() {
		t.Fatal("sale detail must not count as navigation")
	}
	if (Command{Kind: KindSalesPage}).IsNavigation() {
		t.Fatal("pagination must not count as navigation")
	}
}
