package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Image     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category string

const (
	CategoryAcoustic    Category = "Acoustic"
	CategoryElectric    Category = "Electric"
	CategoryBass        Category = "Bass"
	CategoryClassical   Category = "Classical"
	CategoryUkulele     Category = "Ukulele"
	CategoryAccessories Category = "Accessories"
)

type Guitar struct {
	ID          uuid.UUID
	Name        string
	Brand       string
	Category    Category
	Description string
	Price       decimal.Decimal
	Stock       int
	IsAvailable bool
	IsFeatured  bool
	Rating      float64
	NumReviews  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cart is an aggregate: TotalAmount and ItemCount are derived from Items and
// recomputed before every persist, never stored stale.
type Cart struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Items       []CartItem
	TotalAmount decimal.Decimal
	ItemCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartItem captures the guitar's price at the time it was added; the captured
// price is refreshed only when the same guitar is added again.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	GuitarID  uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recalculate refreshes the derived totals from the current line set.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	count := 0
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	c.TotalAmount = total
	c.ItemCount = count
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit-card"
	PaymentMethodDebitCard      PaymentMethod = "debit-card"
	PaymentMethodPaypal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash-on-delivery"
)

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID                uuid.UUID
	CustomerID        uuid.UUID
	Items             []OrderItem
	ShippingAddress   ShippingAddress
	PaymentMethod     PaymentMethod
	PaymentStatus     PaymentStatus
	Status            OrderStatus
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	ShippingCost      decimal.Decimal
	TotalAmount       decimal.Decimal
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem is a snapshot copied from the cart at checkout; price and quantity
// are write-once and never re-read from the guitar.
type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	GuitarID uuid.UUID
	Quantity int
	Price    decimal.Decimal
}

type Review struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	GuitarID   uuid.UUID
	Rating     int
	Title      string
	Comment    string
	Images     []string
	IsVerified bool
	Helpful    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WishlistItem struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	GuitarID   uuid.UUID
	AddedAt    time.Time
}

type OrderMessage struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}
