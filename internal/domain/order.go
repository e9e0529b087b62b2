package domain

import "time"

// OrderStatus represents the state of a placed order. The core creates
// orders in StatusNew; later transitions are owned by the back-office.
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusArchived   OrderStatus = "archived"
)

func (s OrderStatus) IsTerminal() bool {
	return s == StatusArchived
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether an order may move from one status to
// another. Cancellation is allowed from any non-terminal state except
// delivered; archiving only from delivered or cancelled.
func CanTransitionTo(from, to OrderStatus) bool {
	switch to {
	case StatusProcessing:
		return from == StatusNew
	case StatusShipped:
		return from == StatusProcessing
	case StatusDelivered:
		return from == StatusShipped
	case StatusCancelled:
		return from == StatusNew || from == StatusProcessing || from == StatusShipped
	case StatusArchived:
		return from == StatusDelivered || from == StatusCancelled
	default:
		return false
	}
}

// OrderItem is an immutable snapshot of a cart line at purchase time.
// Intentionally not a live product reference: prices and stock may change
// after the order is placed.
type OrderItem struct {
	ProductID     string  `json:"product_id" bson:"product_id"`
	ProductName   string  `json:"product_name" bson:"product_name"`
	UnitPrice     float64 `json:"unit_price" bson:"unit_price"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	Color         string  `json:"color,omitempty" bson:"color,omitempty"`
	Size          string  `json:"size,omitempty" bson:"size,omitempty"`
	ArticleNumber string  `json:"article_number,omitempty" bson:"article_number,omitempty"`
}

func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// ContactInfo holds the customer-supplied contact fields collected at
// checkout. TelegramHandle is required when Method is "telegram".
type ContactInfo struct {
	Name           string `json:"name" bson:"name"`
	Phone          string `json:"phone" bson:"phone"`
	Email          string `json:"email" bson:"email"`
	Address        string `json:"address" bson:"address"`
	Method         string `json:"method,omitempty" bson:"method,omitempty"`
	TelegramHandle string `json:"telegram_handle,omitempty" bson:"telegram_handle,omitempty"`
}

// Order is created once, atomically, from a cart snapshot. The core never
// re-enters an order after creation.
type Order struct {
	ID              string      `json:"id" bson:"_id"`
	SessionID       string      `json:"session_id" bson:"session_id"`
	Items           []OrderItem `json:"items" bson:"items"`
	Total           float64     `json:"total" bson:"total"`
	Status          OrderStatus `json:"status" bson:"status"`
	DeliveryMethod  string      `json:"delivery_method,omitempty" bson:"delivery_method,omitempty"`
	DeliveryFee     float64     `json:"delivery_fee" bson:"delivery_fee"`
	DeliveryAddress string      `json:"delivery_address" bson:"delivery_address"`
	Contact         ContactInfo `json:"contact" bson:"contact"`
	TrackingNumber  string      `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	TrackingURL     string      `json:"tracking_url,omitempty" bson:"tracking_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}
