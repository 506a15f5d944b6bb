package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storebot/pkg/config"
	"storebot/pkg/logger"
)

// WebhookResources are the event kinds a webhook can subscribe to. The
// subscriptions list operation fans out over all of them.
var WebhookResources = []string{
	"sale", "refund", "dispute", "dispute_won",
	"cancellation", "subscription_updated", "subscription_ended", "subscription_restarted",
}

// Client is the HTTP implementation of Gateway against the commerce API.
type Client struct {
	log     *logger.Logger
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client from configuration.
func NewClient(log *logger.Logger, cfg *config.CommerceConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.gumroad.com/v2"
	}

	return &Client{
		log:     log,
		token:   cfg.AccessToken,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Call executes a named operation. Transport failures, missing credentials
// and unsupported operations all come back as failed Results; callers only
// branch on Success.
func (c *Client) Call(ctx context.Context, resource, action string, params Params) Result {
	if c.token == "" {
		return Fail("missing access token")
	}

	if resource == "subscriptions" && action == "list" {
		return c.listSubscriptions(ctx)
	}

	method, path, form, err := resolve(resource, action, params)
	if err != nil {
		return Fail("%v", err)
	}
	return c.do(ctx, method, path, form)
}

// listSubscriptions queries every webhook resource kind concurrently and
// merges the registrations keyed by resource name. Kinds that fail to list
// are omitted rather than failing the whole view.
func (c *Client) listSubscriptions(ctx context.Context) Result {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		merged = make(map[string][]ResourceSubscription)
	)

	for _, name := range WebhookResources {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			res := c.do(ctx, http.MethodGet, "/resource_subscriptions?resource_name="+name, nil)
			if !res.Success {
				return
			}
			mu.Lock()
			merged[name] = res.ResourceSubscriptions
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return Result{Success: true, Subscriptions: merged}
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) Result {
	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Fail("building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Fail("%v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fail("reading response: %v", err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.Debug("Non-JSON response from commerce API",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return Fail("invalid JSON response")
	}
	if !result.Success && result.Error == "" {
		result.Error = fmt.Sprintf("request failed (HTTP %d)", resp.StatusCode)
	}
	return result
}

func str(v any) string {
	return fmt.Sprint(v)
}

func esc(v any) string {
	return url.PathEscape(str(v))
}

// resolve maps a (resource, action) pair to its HTTP verb, path and form
// payload. Unknown pairs are an error so typos surface as a single failed
// result instead of a misdirected request.
func resolve(resource, action string, p Params) (string, string, url.Values, error) {
	form := url.Values{}

	switch resource {
	case "products":
		switch action {
		case "list":
			return http.MethodGet, "/products", nil, nil
		case "details":
			return http.MethodGet, "/products/" + esc(p["id"]), nil, nil
		case "delete":
			return http.MethodDelete, "/products/" + esc(p["id"]), nil, nil
		case "enable":
			return http.MethodPut, "/products/" + esc(p["id"]) + "/enable", nil, nil
		case "disable":
			return http.MethodPut, "/products/" + esc(p["id"]) + "/disable", nil, nil
		}

	case "sales":
		switch action {
		case "list":
			q := url.Values{}
			if v, ok := p["email"]; ok {
				q.Set("email", str(v))
			}
			if v, ok := p["product_id"]; ok {
				q.Set("product_id", str(v))
			}
			if v, ok := p["page"]; ok {
				q.Set("page_key", str(v))
			}
			path := "/sales"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return http.MethodGet, path, nil, nil
		case "details":
			return http.MethodGet, "/sales/" + esc(p["id"]), nil, nil
		case "refund":
			if v, ok := p["amount"]; ok {
				form.Set("amount_cents", str(v))
			}
			return http.MethodPut, "/sales/" + esc(p["id"]) + "/refund", form, nil
		case "mark-shipped":
			form.Set("tracking_url", str(p["tracking"]))
			return http.MethodPut, "/sales/" + esc(p["id"]) + "/mark_as_shipped", form, nil
		case "resend-receipt":
			return http.MethodPost, "/sales/" + esc(p["id"]) + "/resend_receipt", nil, nil
		}

	case "licenses":
		form.Set("product_id", str(p["product"]))
		form.Set("license_key", str(p["key"]))
		switch action {
		case "verify":
			form.Set("increment_uses_count", "false")
			return http.MethodPost, "/licenses/verify", form, nil
		case "enable":
			return http.MethodPut, "/licenses/enable", form, nil
		case "disable":
			return http.MethodPut, "/licenses/disable", form, nil
		case "decrement":
			return http.MethodPut, "/licenses/decrement_uses_count", form, nil
		case "rotate":
			return http.MethodPut, "/licenses/rotate", form, nil
		}

	case "discounts":
		base := "/products/" + esc(p["product"]) + "/offer_codes"
		switch action {
		case "list":
			return http.MethodGet, base, nil, nil
		case "details":
			return http.MethodGet, base + "/" + esc(p["id"]), nil, nil
		case "create":
			form.Set("name", str(p["name"]))
			form.Set("max_purchase_count", str(p["limit"]))
			if str(p["type"]) == "percent" {
				form.Set("amount_off", str(p["amount"]))
				form.Set("offer_type", "percent")
			} else {
				form.Set("amount_cents", str(p["amount"]))
				form.Set("offer_type", "cents")
			}
			return http.MethodPost, base, form, nil
		case "update":
			if v, ok := p["name"]; ok {
				form.Set("offer_code", str(v))
			}
			if v, ok := p["limit"]; ok {
				form.Set("max_purchase_count", str(v))
			}
			return http.MethodPut, base + "/" + esc(p["id"]), form, nil
		case "delete":
			return http.MethodDelete, base + "/" + esc(p["id"]), nil, nil
		}

	case "subscriptions":
		switch action {
		case "create":
			form.Set("post_url", str(p["url"]))
			form.Set("resource_name", str(p["type"]))
			return http.MethodPut, "/resource_subscriptions", form, nil
		case "delete":
			return http.MethodDelete, "/resource_subscriptions/" + esc(p["id"]), nil, nil
		}

	case "subscribers":
		if action == "details" {
			return http.MethodGet, "/subscribers/" + esc(p["id"]), nil, nil
		}

	case "payouts":
		switch action {
		case "list":
			path := "/payouts"
			if v, ok := p["page"]; ok {
				path += "?page_key=" + url.QueryEscape(str(v))
			}
			return http.MethodGet, path, nil, nil
		case "details":
			return http.MethodGet, "/payouts/" + esc(p["id"]), nil, nil
		}

	case "variant-categories":
		if action == "list" {
			return http.MethodGet, "/products/" + esc(p["product"]) + "/variant_categories", nil, nil
		}

	case "variants":
		if action == "list" {
			return http.MethodGet,
				"/products/" + esc(p["product"]) + "/variant_categories/" + esc(p["category"]) + "/variants",
				nil, nil
		}

	case "custom-fields":
		base := "/products/" + esc(p["product"]) + "/custom_fields"
		switch action {
		case "list":
			return http.MethodGet, base, nil, nil
		case "create":
			form.Set("name", str(p["name"]))
			form.Set("required", str(p["required"]))
			return http.MethodPost, base, form, nil
		case "delete":
			return http.MethodDelete, base + "/" + esc(p["name"]), nil, nil
		}

	case "whoami":
		return http.MethodGet, "/user", nil, nil
	}

	return "", "", nil, fmt.Errorf("unsupported operation %s/%s", resource, action)
}
