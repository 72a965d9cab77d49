package orders

import "time"

const (
	DeliveryHome   = "delivery"
	DeliveryPickup = "pickup"
)

type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Price      int       `json:"price"`
	CategoryID string    `json:"category_id,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	Stock      int       `json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LineItem is a snapshot of a product taken when the order was placed; later
// product edits do not change it.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Label is the name shown to staff when something goes wrong with this item.
func (li LineItem) Label() string {
	if li.Name != "" {
		return li.Name
	}
	return "ID: " + li.ProductID
}

type Order struct {
	ID              string     `json:"id"`
	Status          Status     `json:"status"`
	LineItems       []LineItem `json:"line_items"`
	Subtotal        int        `json:"subtotal"`
	DeliveryFee     int        `json:"delivery_fee"`
	Total           int        `json:"total"`
	DeliveryType    string     `json:"delivery_type"`
	PaymentMethod   string     `json:"payment_method"`
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ProductFilter narrows ListProducts. Query matches the name, case-insensitive.
type ProductFilter struct {
	Query      string
	CategoryID string
}

func (f ProductFilter) Match(p Product) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	return f.Query == "" || containsFold(p.Name, f.Query)
}

// Filter narrows ListOrders. Zero values mean "no constraint".
type Filter struct {
	Status   Status
	Customer string // case-insensitive substring
	From     time.Time
	To       time.Time // exclusive
	Limit    int
	Offset   int
}

func (f Filter) Match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Customer != "" && !containsFold(o.CustomerName, f.Customer) {
		return false
	}
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.CreatedAt.Before(f.To) {
		return false
	}
	return true
}
