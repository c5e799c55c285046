package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guitarhaus/guitarhaus-api/internal/model"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any) Response { return Response{Success: true, Data: data} }

func OKMsg(msg string, data any) Response {
	return Response{Success: true, Message: msg, Data: data}
}

func Fail(err string) Response { return Response{Success: false, Error: err} }

// --- Auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token    string           `json:"token"`
	Customer CustomerResponse `json:"customer"`
}

type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Image     string    `json:"image,omitempty"`
	Role      string    `json:"role"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Image     *string `json:"image"`
}

// --- Guitar ---

type CreateGuitarRequest struct {
	Name        string          `json:"name" binding:"required"`
	Brand       string          `json:"brand" binding:"required"`
	Category    model.Category  `json:"category" binding:"required,oneof=Acoustic Electric Bass Classical Ukulele Accessories"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	IsAvailable *bool           `json:"is_available"`
	IsFeatured  bool            `json:"is_featured"`
}

type UpdateGuitarRequest struct {
	Name        *string          `json:"name"`
	Brand       *string          `json:"brand"`
	Category    *model.Category  `json:"category" binding:"omitempty,oneof=Acoustic Electric Bass Classical Ukulele Accessories"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	IsAvailable *bool            `json:"is_available"`
	IsFeatured  *bool            `json:"is_featured"`
}

type ListGuitarsRequest struct {
	Page      int     `form:"page,default=1" binding:"min=1"`
	Limit     int     `form:"limit,default=10" binding:"min=1,max=100"`
	Category  string  `form:"category"`
	Brand     string  `form:"brand"`
	MinPrice  *string `form:"min_price"`
	MaxPrice  *string `form:"max_price"`
	Available *bool   `form:"available"`
	Search    string  `form:"search"`
	Sort      string  `form:"sort,default=created_at" binding:"oneof=name brand price rating created_at"`
	Order     string  `form:"order,default=desc" binding:"oneof=asc desc"`
}

type GuitarResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Category    model.Category  `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
	IsFeatured  bool            `json:"is_featured"`
	Rating      float64         `json:"rating"`
	NumReviews  int             `json:"num_reviews"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type GuitarListResponse struct {
	Guitars []GuitarResponse `json:"guitars"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// --- Cart ---

type AddCartItemRequest struct {
	GuitarID uuid.UUID `json:"guitar_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	ID          uuid.UUID          `json:"id"`
	Items       []CartItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
}

type CartItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	GuitarID uuid.UUID       `json:"guitar_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// --- Order ---

type CheckoutRequest struct {
	ShippingAddress model.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   model.PaymentMethod   `json:"payment_method" binding:"required,oneof=credit-card debit-card paypal cash-on-delivery"`
	Notes           string                `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status            *model.OrderStatus   `json:"status" binding:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	PaymentStatus     *model.PaymentStatus `json:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	TrackingNumber    *string              `json:"tracking_number"`
	EstimatedDelivery *time.Time           `json:"estimated_delivery"`
}

type OrderResponse struct {
	ID                uuid.UUID             `json:"id"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	Items             []OrderItemResponse   `json:"items"`
	ShippingAddress   model.ShippingAddress `json:"shipping_address"`
	PaymentMethod     model.PaymentMethod   `json:"payment_method"`
	PaymentStatus     model.PaymentStatus   `json:"payment_status"`
	Status            model.OrderStatus     `json:"status"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	Tax               decimal.Decimal       `json:"tax"`
	ShippingCost      decimal.Decimal       `json:"shipping_cost"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	TrackingNumber    string                `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time            `json:"estimated_delivery,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

type OrderItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	GuitarID uuid.UUID       `json:"guitar_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Review ---

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"required,max=100"`
	Comment string `json:"comment" binding:"required,max=500"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title" binding:"omitempty,max=100"`
	Comment *string `json:"comment" binding:"omitempty,max=500"`
}

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	GuitarID   uuid.UUID `json:"guitar_id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	IsVerified bool      `json:"is_verified"`
	Helpful    int       `json:"helpful"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Count   int              `json:"count"`
}

// --- Wishlist ---

type AddWishlistRequest struct {
	GuitarID uuid.UUID `json:"guitar_id" binding:"required"`
}

type WishlistItemResponse struct {
	ID       uuid.UUID `json:"id"`
	GuitarID uuid.UUID `json:"guitar_id"`
	AddedAt  time.Time `json:"added_at"`
}

type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	Count int                    `json:"count"`
}

type WishlistCheckResponse struct {
	InWishlist bool `json:"in_wishlist"`
}
