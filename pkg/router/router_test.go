package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"storebot/pkg/flow"
	"storebot/pkg/gateway"
	"storebot/pkg/logger"
	"storebot/pkg/menu"
	"storebot/pkg/render"
	"storebot/pkg/session"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

type recordedCall struct {
	Resource string
	Action   string
	Params   gateway.Params
}

type fakeGateway struct {
	calls   []recordedCall
	results map[string]gateway.Result
}

func (f *fakeGateway) Call(ctx context.Context, resource, action string, params gateway.Params) gateway.Result {
	f.calls = append(f.calls, recordedCall{Resource: resource, Action: action, Params: params})
	if res, ok := f.results[resource+"/"+action]; ok {
		return res
	}
	return gateway.Result{Success: true}
}

func newRouter(gw gateway.Gateway, now func() time.Time) *Router {
	log := logger.Nop()
	catalog := menu.NewCatalog(log, gw)
	flows := flow.NewMachine(log, gw, catalog)
	return NewWithClock(log, gw, catalog, flows, render.NewWithClock(now), now)
}

func buttonRequest(st *session.State) *Request {
	return &Request{Channel: "telegram", Capabilities: []string{"inlineButtons"}, State: st}
}

func textRequest(st *session.State) *Request {
	return &Request{Channel: "console", State: st}
}

func TestOpenMenuSendsFreshMainMenu(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}
	st.StartFlow(&session.Pending{Kind: session.FlowMarkShipped, SaleID: "s1"})

	p := r.OpenMenu(context.Background(), buttonRequest(st))
	if p.Mode != view.ModeSend {
		t.Fatalf("opening the menu must send a new message, got %q", p.Mode)
	}
	if st.Pending != nil {
		t.Fatal("opening the menu must abandon any pending flow")
	}
	if len(gw.calls) != 0 {
		t.Fatal("the main menu needs no remote data")
	}
	if st.Menu == nil || len(st.Menu.Values) == 0 {
		t.Fatal("expected a numbered-reply mapping to be stored")
	}
}

func TestUnrelatedTextIsNotHandled(t *testing.T) {
	r := newRouter(&fakeGateway{}, time.Now)
	st := &session.State{}

	for _, text := range []string{"", "   ", "hello there", "gp:products", "7"} {
		if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), text); handled {
			t.Fatalf("%q must fall through to the host", text)
		}
	}
}

func TestNoopTokenIsNotHandled(t *testing.T) {
	r := newRouter(&fakeGateway{}, time.Now)
	st := &session.State{}
	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.Noop()); handled {
		t.Fatal("inert rows must do nothing")
	}
}

func TestNumberedReplyResolvesWhileFresh(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	gw := &fakeGateway{}
	r := newRouter(gw, clock)
	st := &session.State{}

	r.OpenMenu(context.Background(), textRequest(st))
	key := keyFor(t, st, token.Products())

	p, handled := r.HandleMessage(context.Background(), textRequest(st), key)
	if !handled {
		t.Fatal("a fresh numbered reply must resolve")
	}
	if len(gw.calls) == 0 || gw.calls[0].Resource != "products" {
		t.Fatalf("expected a products listing, calls %v", gw.calls)
	}
	if p.Mode != view.ModeSend {
		t.Fatalf("text mode must always send new, got %q", p.Mode)
	}
}

func TestNumberedReplyExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	r := newRouter(&fakeGateway{}, clock)
	st := &session.State{}

	r.OpenMenu(context.Background(), textRequest(st))
	key := keyFor(t, st, token.Products())

	now = now.Add(session.MappingTTL + time.Second)
	if _, handled := r.HandleMessage(context.Background(), textRequest(st), key); handled {
		t.Fatal("an expired numbered reply must fall through as plain text")
	}
}

func TestStragglingNumberResolvesAfterButtonRender(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	// Rendered with buttons, answered with a number anyway.
	r.OpenMenu(context.Background(), buttonRequest(st))
	key := keyFor(t, st, token.Products())

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), key); !handled {
		t.Fatal("numbered replies must work even after a button render")
	}
}

func TestNavigationAbandonsPendingFlow(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}
	st.StartFlow(&session.Pending{Kind: session.FlowSearchSalesByEmail})

	_, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.Products())
	if !handled {
		t.Fatal("navigation must be handled")
	}
	if st.Pending != nil {
		t.Fatal("navigation must abandon the pending flow")
	}
}

func TestNonNavigationTokenKeepsPendingFlow(t *testing.T) {
	gw := &fakeGateway{
		results: map[string]gateway.Result{
			"sales/details": {Success: true, Sale: &gateway.Sale{ID: "s1"}},
		},
	}
	r := newRouter(gw, time.Now)
	st := &session.State{}
	st.StartFlow(&session.Pending{Kind: session.FlowSearchSalesByEmail})

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.SaleDetail("s1")); !handled {
		t.Fatal("detail navigation must be handled")
	}
	if st.Pending == nil {
		t.Fatal("a non-navigation token must leave the flow intact")
	}
}

func TestFreeTextFeedsActiveFlow(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.SalesSearch()); !handled {
		t.Fatal("search entry must be handled")
	}
	if st.Pending == nil || st.Pending.Kind != session.FlowSearchSalesByEmail {
		t.Fatalf("expected search flow, got %+v", st.Pending)
	}

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), "buyer@example.com"); !handled {
		t.Fatal("the flow must consume the email")
	}
	if st.Pending != nil {
		t.Fatal("the flow must be finished")
	}
	if got := st.Filter(); got.Email != "buyer@example.com" {
		t.Fatalf("expected sticky filter, got %+v", got)
	}
}

func TestDestructiveAskDoesNotTouchGateway(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	p, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.ProductDeleteAsk("p1"))
	if !handled {
		t.Fatal("the confirmation screen must be handled")
	}
	if len(gw.calls) != 0 {
		t.Fatalf("the ask step must make no calls, got %v", gw.calls)
	}

	var tokens []string
	for _, row := range p.Buttons {
		for _, opt := range row {
			tokens = append(tokens, opt.Token)
		}
	}
	joined := strings.Join(tokens, " ")
	if !strings.Contains(joined, token.ProductDeleteDo("p1")) {
		t.Fatalf("expected a confirm option, got %v", tokens)
	}
	if !strings.Contains(joined, token.ProductDetail("p1")) {
		t.Fatalf("expected a cancel option back to the product, got %v", tokens)
	}
}

func TestDestructiveDoIssuesTheCall(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.ProductDeleteDo("p1")); !handled {
		t.Fatal("the confirmed delete must be handled")
	}
	del := gw.calls[0]
	if del.Resource != "products" || del.Action != "delete" || del.Params["id"] != "p1" {
		t.Fatalf("unexpected call %+v", del)
	}
}

func TestRefundDoReturnsToSaleDetail(t *testing.T) {
	gw := &fakeGateway{
		results: map[string]gateway.Result{
			"sales/details": {Success: true, Sale: &gateway.Sale{ID: "s1", Email: "a@b.c"}},
		},
	}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.RefundDo("s1")); !handled {
		t.Fatal("the confirmed refund must be handled")
	}
	refund := gw.calls[0]
	if refund.Resource != "sales" || refund.Action != "refund" || refund.Params["id"] != "s1" {
		t.Fatalf("unexpected call %+v", refund)
	}
}

func TestProductScopedSalesSetsStickyFilter(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.ProductSales("p1")); !handled {
		t.Fatal("product sales must be handled")
	}
	if got := st.Filter(); got.ProductID != "p1" || got.Email != "" {
		t.Fatalf("expected product-pinned filter, got %+v", got)
	}

	// Pagination keeps the filter.
	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.SalesPage("k2")); !handled {
		t.Fatal("pagination must be handled")
	}
	page := gw.calls[len(gw.calls)-1]
	if page.Params["product_id"] != "p1" || page.Params["page"] != "k2" {
		t.Fatalf("pagination lost the filter: %v", page.Params)
	}

	// Top-level sales navigation resets it.
	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.Sales()); !handled {
		t.Fatal("sales navigation must be handled")
	}
	if got := st.Filter(); got != (session.SalesFilter{}) {
		t.Fatalf("expected reset filter, got %+v", got)
	}
}

func TestDiscountTypeWithoutPendingShowsSessionExpired(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	p, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.DiscountType("percent"))
	if !handled {
		t.Fatal("a stale finalize token must still be handled")
	}
	if len(gw.calls) != 0 {
		t.Fatal("no create call without collected fields")
	}
	if !strings.Contains(strings.ToLower(p.Text), "expired") {
		t.Fatalf("expected the recovery screen, got %q", p.Text)
	}
}

func TestDiscountTypeFinalizesCreate(t *testing.T) {
	gw := &fakeGateway{}
	r := newRouter(gw, time.Now)
	st := &session.State{}
	st.StartFlow(&session.Pending{
		Kind:      session.FlowCreateDiscountAmount,
		ProductID: "p1",
		Name:      "SUMMER",
		Amount:    25,
	})

	if _, handled := r.HandleMessage(context.Background(), buttonRequest(st), token.DiscountType("percent")); !handled {
		t.Fatal("the finalize token must be handled")
	}
	if st.Pending != nil {
		t.Fatal("finalizing must clear the pending flow")
	}

	create := gw.calls[0]
	if create.Resource != "discounts" || create.Action != "create" {
		t.Fatalf("unexpected call %s/%s", create.Resource, create.Action)
	}
	if create.Params["name"] != "SUMMER" || create.Params["amount"] != 25 ||
		create.Params["type"] != "percent" || create.Params["limit"] != flow.DefaultDiscountLimit {
		t.Fatalf("unexpected params %v", create.Params)
	}
}

func TestProductToggleUsesCurrentState(t *testing.T) {
	gw := &fakeGateway{
		results: map[string]gateway.Result{
			"products/details": {Success: true, Product: &gateway.Product{ID: "p1"}},
		},
	}
	r := newRouter(gw, time.Now)
	st := &session.State{}

	r.HandleMessage(context.Background(), buttonRequest(st), token.ProductToggle("p1", true))
	if gw.calls[0].Action != "disable" {
		t.Fatalf("published products toggle off, got %q", gw.calls[0].Action)
	}

	gw.calls = nil
	r.HandleMessage(context.Background(), buttonRequest(st), token.ProductToggle("p1", false))
	if gw.calls[0].Action != "enable" {
		t.Fatalf("unpublished products toggle on, got %q", gw.calls[0].Action)
	}
}

func TestNilStateDegradesGracefully(t *testing.T) {
	r := newRouter(&fakeGateway{}, time.Now)
	req := &Request{Channel: "telegram", Capabilities: []string{"inlineButtons"}}

	if _, handled := r.HandleMessage(context.Background(), req, token.Products()); !handled {
		t.Fatal("tokens must still dispatch without session state")
	}
	if _, handled := r.HandleMessage(context.Background(), req, "2"); handled {
		t.Fatal("numbered replies cannot resolve without state")
	}
}

// keyFor finds the numbered key the last render assigned to a token.
func keyFor(t *testing.T, st *session.State, tok string) string {
	t.Helper()
	if st.Menu == nil {
		t.Fatal("no mapping stored")
	}
	for k, v := range st.Menu.Values {
		if v == tok {
			return k
		}
	}
	t.Fatalf("token %q not in mapping %v", tok, st.Menu.Values)
	return ""
}
