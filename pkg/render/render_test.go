package render

import (
	"strings"
	"testing"
	"time"

	"storebot/pkg/session"
	"storebot/pkg/view"
)

func sampleModel() view.Model {
	return view.Model{
		Text: "Your Products",
		Options: [][]view.Option{
			view.Row(view.Btn("Product A", "sb:product:a"), view.Btn("Product B", "sb:product:b")),
			view.Row(view.LinkBtn("Storefront", "https://example.com")),
			view.Row(view.Btn("Back", "sb:main")),
		},
		Mode: view.ModeReplace,
	}
}

func TestSupportsButtons(t *testing.T) {
	cases := []struct {
		channel string
		caps    []string
		want    bool
	}{
		{"telegram", []string{"inlineButtons"}, true},
		{"webchat", []string{"buttons"}, true},
		{"Telegram", []string{"inlineButtons"}, true},
		{"telegram", nil, false},
		{"telegram", []string{"voice"}, false},
		{"console", []string{"inlineButtons"}, false},
		{"sms", []string{"buttons"}, false},
	}
	for _, tc := range cases {
		if got := SupportsButtons(tc.channel, tc.caps); got != tc.want {
			t.Fatalf("SupportsButtons(%q, %v) = %v, want %v", tc.channel, tc.caps, got, tc.want)
		}
	}
}

func TestRenderButtonModeKeepsGridAndMode(t *testing.T) {
	st := &session.State{}
	r := New()

	p := r.Render(st, "telegram", []string{"inlineButtons"}, sampleModel())

	if len(p.Buttons) != 3 {
		t.Fatalf("expected 3 button rows, got %d", len(p.Buttons))
	}
	if p.Mode != view.ModeReplace {
		t.Fatalf("button mode must preserve replace-current, got %q", p.Mode)
	}
	if !strings.Contains(p.Text, "Your Products") {
		t.Fatalf("payload text lost the screen text: %q", p.Text)
	}
}

func TestRenderTextModeNumbersActionableOptions(t *testing.T) {
	st := &session.State{}
	r := New()

	p := r.Render(st, "console", nil, sampleModel())

	if len(p.Buttons) != 0 {
		t.Fatalf("text mode must not carry buttons, got %d rows", len(p.Buttons))
	}
	// The link option takes no number; the grid flattens to 3 actionable
	// options numbered 1..3 in row-major order.
	for _, line := range []string{"1. Product A", "2. Product B", "3. Back"} {
		if !strings.Contains(p.Text, line) {
			t.Fatalf("expected %q in text menu:\n%s", line, p.Text)
		}
	}
	if strings.Contains(p.Text, "4.") {
		t.Fatalf("link options must not be numbered:\n%s", p.Text)
	}
	if p.Mode != view.ModeSend {
		t.Fatalf("text mode must force send-new, got %q", p.Mode)
	}
}

func TestRenderStoresSameMappingInBothModes(t *testing.T) {
	now := time.Now()
	r := NewWithClock(func() time.Time { return now })

	btnState := &session.State{}
	r.Render(btnState, "telegram", []string{"inlineButtons"}, sampleModel())

	txtState := &session.State{}
	r.Render(txtState, "console", nil, sampleModel())

	want := map[string]string{
		"1": "sb:product:a",
		"2": "sb:product:b",
		"3": "sb:main",
	}
	for _, st := range []*session.State{btnState, txtState} {
		if st.Menu == nil {
			t.Fatal("expected a stored mapping")
		}
		if len(st.Menu.Values) != len(want) {
			t.Fatalf("expected %d entries, got %v", len(want), st.Menu.Values)
		}
		for k, v := range want {
			if st.Menu.Values[k] != v {
				t.Fatalf("mapping[%q] = %q, want %q", k, st.Menu.Values[k], v)
			}
		}
		if !st.Menu.CreatedAt.Equal(now) {
			t.Fatalf("mapping timestamp = %v, want %v", st.Menu.CreatedAt, now)
		}
	}
}

func TestRenderReplacesMappingWholesale(t *testing.T) {
	st := &session.State{}
	r := New()

	r.Render(st, "console", nil, sampleModel())
	r.Render(st, "console", nil, view.Model{
		Text:    "Smaller menu",
		Options: [][]view.Option{view.Row(view.Btn("Only", "sb:sales"))},
	})

	if len(st.Menu.Values) != 1 || st.Menu.Values["1"] != "sb:sales" {
		t.Fatalf("expected wholesale replacement, got %v", st.Menu.Values)
	}
}

func TestRenderNilStateIsSafe(t *testing.T) {
	r := New()
	p := r.Render(nil, "console", nil, sampleModel())
	if p == nil || p.Text == "" {
		t.Fatal("expected a payload even without session state")
	}
}
