// Package session holds the per-conversation state the interaction engine
// reads and writes: the active multi-step input flow, the last numbered-reply
// mapping, and the sticky sales filter. State lives in an external store
// (memory or redis) whose lifecycle owns teardown.
package session

import (
	"regexp"
	"time"
)

// FlowKind identifies a multi-step free-text input flow.
type FlowKind string

const (
	FlowCreateCustomField    FlowKind = "create-custom-field"
	FlowMarkShipped          FlowKind = "mark-shipped"
	FlowCreateWebhook        FlowKind = "create-webhook"
	FlowSearchSalesByEmail   FlowKind = "search-sales-by-email"
	FlowCreateDiscountName   FlowKind = "create-discount-name"
	FlowCreateDiscountAmount FlowKind = "create-discount-amount"
	FlowEditDiscountName     FlowKind = "edit-discount-name"
	FlowEditDiscountLimit    FlowKind = "edit-discount-limit"
)

// Pending is the active multi-step flow. At most one exists per session;
// starting a new flow discards any prior one, and a flow is removed the
// instant it reaches a terminal step.
type Pending struct {
	Kind FlowKind `json:"kind"`

	// Entity scope collected when the flow started.
	ProductID  string `json:"product_id,omitempty"`
	SaleID     string `json:"sale_id,omitempty"`
	DiscountID string `json:"discount_id,omitempty"`
	Resource   string `json:"resource,omitempty"`

	// Fields accumulated step by step.
	Name    string `json:"name,omitempty"`
	NewName string `json:"new_name,omitempty"`
	Amount  int    `json:"amount,omitempty"`
}

// MappingTTL bounds how long a numbered-reply mapping stays resolvable.
const MappingTTL = 15 * time.Minute

// MenuMapping is the last numbered-reply table: dense keys "1".."N" in
// row-major option order, replaced wholesale on every render.
type MenuMapping struct {
	Values    map[string]string `json:"values"`
	CreatedAt time.Time         `json:"created_at"`
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Resolve maps a digit-only reply to its action token. Expired mappings and
// unknown keys do not resolve; the reply then continues as ordinary text.
func (m *MenuMapping) Resolve(text string, now time.Time) (string, bool) {
	if m == nil || !digitsOnly.MatchString(text) {
		return "", false
	}
	if now.Sub(m.CreatedAt) >= MappingTTL {
		return "", false
	}
	token, ok := m.Values[text]
	return token, ok
}

// SalesFilter is the sticky filter for sales list views. It persists across
// pagination until navigation to a top-level menu resets it.
type SalesFilter struct {
	Email     string `json:"email,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

// State carries the three session-scoped records the engine owns. Fields are
// created lazily on first use and never explicitly destroyed here.
type State struct {
	Pending     *Pending     `json:"pending,omitempty"`
	Menu        *MenuMapping `json:"menu,omitempty"`
	SalesFilter *SalesFilter `json:"sales_filter,omitempty"`
}

// StartFlow installs a new pending flow, discarding any prior one.
func (s *State) StartFlow(p *Pending) {
	if s == nil {
		return
	}
	s.Pending = p
}

// ClearPending abandons the active flow, if any.
func (s *State) ClearPending() {
	if s == nil {
		return
	}
	s.Pending = nil
}

// SetMenuMapping replaces the numbered-reply mapping wholesale.
func (s *State) SetMenuMapping(values map[string]string, now time.Time) {
	if s == nil {
		return
	}
	s.Menu = &MenuMapping{Values: values, CreatedAt: now}
}

// Filter returns the current sales filter, empty when none is set.
func (s *State) Filter() SalesFilter {
	if s == nil || s.SalesFilter == nil {
		return SalesFilter{}
	}
	return *s.SalesFilter
}

// SetFilter replaces the sticky sales filter.
func (s *State) SetFilter(f SalesFilter) {
	if s == nil {
		return
	}
	s.SalesFilter = &f
}
