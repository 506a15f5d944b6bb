package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"storebot/pkg/config"
	"storebot/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(logger.Nop(), &config.CommerceConfig{
		AccessToken: "test-token",
		BaseURL:     srv.URL,
	})
}

func TestCallWithoutTokenFailsLocally(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	c.token = ""

	res := c.Call(context.Background(), "products", "list", nil)
	if res.Success {
		t.Fatal("expected failure without a token")
	}
	if called {
		t.Fatal("a missing token must not produce a request")
	}
}

func TestProductsListRequestShape(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/products" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"success":true,"products":[{"id":"p1","name":"Ebook"}]}`))
	})

	res := c.Call(context.Background(), "products", "list", nil)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if len(res.Products) != 1 || res.Products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", res.Products)
	}
}

func TestSalesListEncodesFilterQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("email") != "a@b.c" || q.Get("page_key") != "k2" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"success":true,"sales":[],"next_page_key":"k3"}`))
	})

	res := c.Call(context.Background(), "sales", "list", Params{"email": "a@b.c", "page": "k2"})
	if !res.Success || res.NextPageKey != "k3" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDiscountCreatePercentForm(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products/p1/offer_codes" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("amount_off") != "25" || r.PostForm.Get("offer_type") != "percent" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		if r.PostForm.Get("max_purchase_count") != "1000" {
			t.Errorf("unexpected limit %q", r.PostForm.Get("max_purchase_count"))
		}
		w.Write([]byte(`{"success":true}`))
	})

	res := c.Call(context.Background(), "discounts", "create", Params{
		"product": "p1", "name": "SUMMER", "amount": 25, "type": "percent", "limit": 1000,
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
}

func TestDiscountCreateCentsForm(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("amount_cents") != "500" || r.PostForm.Get("offer_type") != "cents" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"success":true}`))
	})

	res := c.Call(context.Background(), "discounts", "create", Params{
		"product": "p1", "name": "FIVE", "amount": 500, "type": "cents", "limit": 1000,
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
}

func TestLicenseVerifyNeverIncrementsUses(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("increment_uses_count") != "false" {
			t.Errorf("verify must not count as a use: %v", r.PostForm)
		}
		if r.PostForm.Get("product_id") != "p1" || r.PostForm.Get("license_key") != "K-1" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"success":true,"uses":3,"purchase":{"license_key":"K-1"}}`))
	})

	res := c.Call(context.Background(), "licenses", "verify", Params{"product": "p1", "key": "K-1"})
	if !res.Success || res.Uses != 3 || res.Purchase == nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSubscriptionsListMergesPerResource(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("resource_name")
		mu.Lock()
		seen[name] = true
		mu.Unlock()

		switch name {
		case "sale":
			w.Write([]byte(`{"success":true,"resource_subscriptions":[{"id":"w1","resource_name":"sale","post_url":"https://x"}]}`))
		case "refund":
			// A failing kind is omitted, not fatal.
			w.Write([]byte(`{"success":false,"error":"nope"}`))
		default:
			w.Write([]byte(`{"success":true,"resource_subscriptions":[]}`))
		}
	})

	res := c.Call(context.Background(), "subscriptions", "list", nil)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if len(seen) != len(WebhookResources) {
		t.Fatalf("expected a request per resource kind, got %v", seen)
	}
	if len(res.Subscriptions["sale"]) != 1 || res.Subscriptions["sale"][0].ID != "w1" {
		t.Fatalf("unexpected merge %+v", res.Subscriptions)
	}
	if _, present := res.Subscriptions["refund"]; present {
		t.Fatal("failed kinds must be omitted from the merge")
	}
}

func TestNonJSONResponseFails(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream error</html>"))
	})

	res := c.Call(context.Background(), "products", "list", nil)
	if res.Success || res.Error != "invalid JSON response" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestErrorResponseGetsStatusFallback(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false}`))
	})

	res := c.Call(context.Background(), "products", "details", Params{"id": "missing"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "request failed (HTTP 404)" {
		t.Fatalf("unexpected error %q", res.Error)
	}
}

func TestUnsupportedOperationFailsLocally(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	res := c.Call(context.Background(), "products", "explode", nil)
	if res.Success {
		t.Fatal("expected failure for unknown operation")
	}
	if called {
		t.Fatal("unknown operations must not produce a request")
	}
}
