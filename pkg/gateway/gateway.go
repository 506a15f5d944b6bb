// Package gateway executes named (resource, action, params) operations
// against the remote commerce API and returns a uniform result. Callers
// never see HTTP status codes or transport errors; they branch only on the
// Success discriminant.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// Params carries operation parameters. Values may be strings, numbers or
// booleans; they are stringified onto the wire.
type Params map[string]any

// Gateway is the single opaque operation the interaction engine depends on.
type Gateway interface {
	Call(ctx context.Context, resource, action string, params Params) Result
}

// Flag is a bool that also accepts the string forms "true"/"false", which
// the remote API emits for some fields.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = s == "true"
		return nil
	}
	return fmt.Errorf("flag: cannot decode %s", string(data))
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool {
	return bool(f)
}

// Product is a sellable item.
type Product struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Published      Flag   `json:"published"`
	FormattedPrice string `json:"formatted_price"`
	SalesCount     int    `json:"sales_count"`
	ShortURL       string `json:"short_url"`
}

// Sale is one purchase record.
type Sale struct {
	ID                  string `json:"id"`
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	Email               string `json:"email"`
	PurchaseEmail       string `json:"purchase_email"`
	FormattedTotalPrice string `json:"formatted_total_price"`
	Daystamp            string `json:"daystamp"`
	Refunded            Flag   `json:"refunded"`
	PartiallyRefunded   Flag   `json:"partially_refunded"`
	Disputed            Flag   `json:"disputed"`
	DisputeWon          Flag   `json:"dispute_won"`
	IsRecurringBilling  Flag   `json:"is_recurring_billing"`
	Cancelled           Flag   `json:"cancelled"`
	Ended               Flag   `json:"ended"`
	SubscriptionID      string `json:"subscription_id"`
	LicenseKey          string `json:"license_key"`
	VariantsAndQuantity string `json:"variants_and_quantity"`
	IsProductPhysical   Flag   `json:"is_product_physical"`
	Shipped             Flag   `json:"shipped"`
	TrackingURL         string `json:"tracking_url"`
	StreetAddress       string `json:"street_address"`
	City                string `json:"city"`
	ZipCode             string `json:"zip_code"`
	Country             string `json:"country"`
}

// OfferCode is a discount code scoped to a product.
type OfferCode struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AmountCents      int    `json:"amount_cents"`
	PercentOff       int    `json:"percent_off"`
	TimesUsed        int    `json:"times_used"`
	MaxPurchaseCount int    `json:"max_purchase_count"`
	Universal        Flag   `json:"universal"`
}

// ResourceSubscription is one webhook registration.
type ResourceSubscription struct {
	ID           string `json:"id"`
	ResourceName string `json:"resource_name"`
	PostURL      string `json:"post_url"`
}

// Subscriber is a recurring-billing customer.
type Subscriber struct {
	ID                    string `json:"id"`
	UserEmail             string `json:"user_email"`
	Status                string `json:"status"`
	CreatedAt             string `json:"created_at"`
	Recurrence            string `json:"recurrence"`
	ChargeOccurrenceCount int    `json:"charge_occurrence_count"`
	EndedAt               string `json:"ended_at"`
}

// Payout is one transfer of funds.
type Payout struct {
	ID               string `json:"id"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	ProcessedAt      string `json:"processed_at"`
	PaymentProcessor string `json:"payment_processor"`
}

// VariantCategory groups a product's variants.
type VariantCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Variant is one option within a category.
type Variant struct {
	Name                 string `json:"name"`
	PriceDifferenceCents int    `json:"price_difference_cents"`
}

// CustomField is an extra checkout question on a product.
type CustomField struct {
	Name     string `json:"name"`
	Required Flag   `json:"required"`
}

// LicensePurchase is the purchase record attached to a license key.
type LicensePurchase struct {
	LicenseKey      string `json:"license_key"`
	Email           string `json:"email"`
	LicenseDisabled Flag   `json:"license_disabled"`
}

// Account is the authenticated seller.
type Account struct {
	ID           string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	URL          string `json:"url"`
	CurrencyType string `json:"currency_type"`
}

// Result is the uniform outcome of a gateway call: the Success discriminant,
// an error description when it is false, and the resource-specific payload
// fields the remote API returned.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Products    []Product `json:"products,omitempty"`
	Product     *Product  `json:"product,omitempty"`
	Sales       []Sale    `json:"sales,omitempty"`
	Sale        *Sale     `json:"sale,omitempty"`
	NextPageKey string    `json:"next_page_key,omitempty"`

	OfferCodes []OfferCode `json:"offer_codes,omitempty"`
	OfferCode  *OfferCode  `json:"offer_code,omitempty"`

	ResourceSubscriptions []ResourceSubscription            `json:"resource_subscriptions,omitempty"`
	Subscriptions         map[string][]ResourceSubscription `json:"subscriptions,omitempty"`
	Subscriber            *Subscriber                       `json:"subscriber,omitempty"`

	Payouts []Payout `json:"payouts,omitempty"`
	Payout  *Payout  `json:"payout,omitempty"`

	VariantCategories []VariantCategory `json:"variant_categories,omitempty"`
	Variants          []Variant         `json:"variants,omitempty"`
	CustomFields      []CustomField     `json:"custom_fields,omitempty"`

	Purchase *LicensePurchase `json:"purchase,omitempty"`
	Uses     int              `json:"uses,omitempty"`

	User *Account `json:"user,omitempty"`
}

// Fail builds a failed result.
func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
