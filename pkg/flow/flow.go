// Package flow advances multi-step free-text input sequences: each session
// holds at most one pending flow, and every inbound message either completes
// a step or finishes the flow. Terminal steps issue exactly one gateway
// write and clear the pending state whatever the outcome; intermediate steps
// only accumulate fields.
package flow

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"storebot/pkg/gateway"
	"storebot/pkg/logger"
	"storebot/pkg/menu"
	"storebot/pkg/session"
	"storebot/pkg/token"
	"storebot/pkg/view"
)

// skipSentinel in edit flows means "leave this field unchanged": the field
// is omitted from the eventual write payload entirely.
const skipSentinel = "skip"

// DefaultDiscountLimit is the purchase cap applied to newly created codes.
const DefaultDiscountLimit = 1000

// Machine advances the pending flow of a session.
type Machine struct {
	log     *logger.Logger
	gw      gateway.Gateway
	catalog *menu.Catalog
}

// NewMachine creates a flow machine.
func NewMachine(log *logger.Logger, gw gateway.Gateway, catalog *menu.Catalog) *Machine {
	return &Machine{log: log, gw: gw, catalog: catalog}
}

// Active reports whether a flow is in progress for the session.
func (m *Machine) Active(st *session.State) bool {
	return st != nil && st.Pending != nil
}

// Advance feeds one message to the active flow. The bool is false when the
// flow declines the input. Namespaced action tokens always pass through so
// button presses (and resolved numbered replies) keep routing while a flow
// waits, e.g. the discount type selection.
func (m *Machine) Advance(ctx context.Context, st *session.State, text string) (view.Model, bool) {
	if !m.Active(st) {
		return view.Model{}, false
	}
	if token.InNamespace(text) {
		return view.Model{}, false
	}

	p := st.Pending
	switch p.Kind {
	case session.FlowCreateCustomField:
		return m.finishCreateField(ctx, st, text), true
	case session.FlowMarkShipped:
		return m.finishMarkShipped(ctx, st, text), true
	case session.FlowCreateWebhook:
		return m.finishCreateWebhook(ctx, st, text), true
	case session.FlowSearchSalesByEmail:
		return m.finishSalesSearch(ctx, st, text), true
	case session.FlowCreateDiscountName:
		return m.collectDiscountName(st, text), true
	case session.FlowCreateDiscountAmount:
		return m.collectDiscountAmount(st, text), true
	case session.FlowEditDiscountName:
		return m.collectEditName(st, text), true
	case session.FlowEditDiscountLimit:
		return m.finishEditDiscount(ctx, st, text), true
	}

	// Unknown kind: drop the broken state rather than swallowing every
	// message from here on.
	m.log.Warn("Clearing pending flow of unknown kind", zap.String("kind", string(p.Kind)))
	st.ClearPending()
	return view.Model{}, false
}

func (m *Machine) finishCreateField(ctx context.Context, st *session.State, name string) view.Model {
	pid := token.ProductID(st.Pending.ProductID)
	res := m.gw.Call(ctx, "custom-fields", "create", gateway.Params{
		"product":  string(pid),
		"name":     name,
		"required": "false",
	})
	st.ClearPending()

	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.Fields(pid))
	}
	return view.Model{
		Text: fmt.Sprintf("✅ Created field: %q", name),
		Options: [][]view.Option{
			view.Row(view.Btn("🔙 Back", token.Fields(pid))),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func (m *Machine) finishMarkShipped(ctx context.Context, st *session.State, tracking string) view.Model {
	sid := token.SaleID(st.Pending.SaleID)
	res := m.gw.Call(ctx, "sales", "mark-shipped", gateway.Params{
		"id":       string(sid),
		"tracking": tracking,
	})
	st.ClearPending()

	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.SaleDetail(sid))
	}
	vm := m.catalog.SaleDetail(ctx, sid)
	vm.Text = "✅ Marked as Shipped"
	return vm
}

func (m *Machine) finishCreateWebhook(ctx context.Context, st *session.State, url string) view.Model {
	resource := st.Pending.Resource
	res := m.gw.Call(ctx, "subscriptions", "create", gateway.Params{
		"type": resource,
		"url":  url,
	})
	st.ClearPending()

	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.Webhooks())
	}
	vm := m.catalog.Webhooks(ctx)
	vm.Text = fmt.Sprintf("✅ Subscribed to '%s'", resource)
	return vm
}

func (m *Machine) finishSalesSearch(ctx context.Context, st *session.State, email string) view.Model {
	st.ClearPending()
	st.SetFilter(session.SalesFilter{Email: email})
	return m.catalog.SalesList(ctx, st.Filter(), "")
}

func (m *Machine) collectDiscountName(st *session.State, name string) view.Model {
	st.Pending.Name = name
	st.Pending.Kind = session.FlowCreateDiscountAmount
	return view.Model{
		Text:      fmt.Sprintf("🎟️ *New Discount: %q*\n\nPlease reply with the *Amount*.", name),
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func (m *Machine) collectDiscountAmount(st *session.State, text string) view.Model {
	amount, err := strconv.Atoi(text)
	if err != nil || amount < 0 {
		// Re-prompt instead of accepting a degenerate value.
		return view.Model{
			Text:      fmt.Sprintf("⚠️ %q is not a whole number.\n\nPlease reply with the *Amount* (e.g. 10).", text),
			Mode:      view.ModeReplace,
			Interrupt: true,
		}
	}

	st.Pending.Amount = amount
	pid := token.ProductID(st.Pending.ProductID)
	return view.Model{
		Text: fmt.Sprintf("🎟️ *Discount: %s (%d)*\n\nSelect the *Type*:", st.Pending.Name, amount),
		Options: [][]view.Option{
			view.Row(view.Btn("💵 Fixed (Cents)", token.DiscountType("cents"))),
			view.Row(view.Btn("🏷️ Percentage (%)", token.DiscountType("percent"))),
			view.Row(view.Btn("❌ Cancel", token.Discounts(pid))),
		},
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func (m *Machine) collectEditName(st *session.State, text string) view.Model {
	if text == skipSentinel {
		st.Pending.NewName = ""
	} else {
		st.Pending.NewName = text
	}
	st.Pending.Kind = session.FlowEditDiscountLimit
	return view.Model{
		Text:      "📝 *Editing Discount*\n\nPlease reply with the new *Usage Limit*.\n(Type 'skip' to keep current)",
		Mode:      view.ModeReplace,
		Interrupt: true,
	}
}

func (m *Machine) finishEditDiscount(ctx context.Context, st *session.State, text string) view.Model {
	p := st.Pending
	pid := token.ProductID(p.ProductID)
	did := token.DiscountID(p.DiscountID)

	// Skipped fields are omitted from the payload, not sent empty.
	params := gateway.Params{"product": string(pid), "id": string(did)}
	if p.NewName != "" {
		params["name"] = p.NewName
	}
	if text != skipSentinel {
		params["limit"] = text
	}

	res := m.gw.Call(ctx, "discounts", "update", params)
	st.ClearPending()

	if !res.Success {
		return menu.Failure(res.Error, "🔙 Back", token.DiscountDetail(pid, did))
	}
	vm := m.catalog.DiscountDetail(ctx, pid, did)
	vm.Text = "✅ Discount Updated"
	return vm
}
