package view

import "testing"

func TestActionableFlattensRowMajorSkippingLinks(t *testing.T) {
	m := Model{
		Options: [][]Option{
			Row(Btn("A", "t:a"), LinkBtn("Docs", "https://docs"), Btn("B", "t:b")),
			Row(Btn("C", "t:c")),
		},
	}

	got := m.Actionable()
	want := []string{"t:a", "t:b", "t:c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(got))
	}
	for i, tok := range want {
		if got[i].Token != tok {
			t.Fatalf("position %d = %q, want %q", i, got[i].Token, tok)
		}
	}
}

func TestIsLink(t *testing.T) {
	if Btn("A", "t:a").IsLink() {
		t.Fatal("token options are not links")
	}
	if !LinkBtn("Docs", "https://docs").IsLink() {
		t.Fatal("link options are links")
	}
}
