package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known status. Transitions between
// statuses are admin-set and not constrained to move forward.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

const (
	// TaxRate is applied to the items subtotal of every order.
	TaxRate = 0.15
	// ShippingFee is the flat campus delivery fee.
	ShippingFee = 50.0
)

// OrderItem is an immutable snapshot of a product at order time, decoupled
// from future product edits.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// ShippingInfo holds the campus delivery address. All fields are required.
type ShippingInfo struct {
	FirstName      string `bson:"first_name" json:"firstName"`
	LastName       string `bson:"last_name" json:"lastName"`
	PhoneNumber    string `bson:"phone_number" json:"phoneNumber"`
	BlockNumber    string `bson:"block_number" json:"blockNumber"`
	RoomDormNumber string `bson:"room_dorm_number" json:"roomDormNumber"`
}

func (s ShippingInfo) Complete() bool {
	return s.FirstName != "" && s.LastName != "" && s.PhoneNumber != "" &&
		s.BlockNumber != "" && s.RoomDormNumber != ""
}

type PaymentInfo struct {
	Method PaymentMethod `bson:"method" json:"method"`
	Status PaymentStatus `bson:"status" json:"status"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber   string             `bson:"order_number" json:"orderNumber"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	Items         []OrderItem        `bson:"items" json:"items"`
	ShippingInfo  ShippingInfo       `bson:"shipping_info" json:"shippingInfo"`
	Payment       PaymentInfo        `bson:"payment" json:"payment"`
	ItemsPrice    float64            `bson:"items_price" json:"itemsPrice"`
	TaxPrice      float64            `bson:"tax_price" json:"taxPrice"`
	ShippingPrice float64            `bson:"shipping_price" json:"shippingPrice"`
	TotalPrice    float64            `bson:"total_price" json:"totalPrice"`
	Status        OrderStatus        `bson:"status" json:"status"`
	DeliveredAt   *time.Time         `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewOrderNumber builds a human-readable, collision-resistant order number
// from the current time and a random suffix.
func NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("DBU-%d-%s", time.Now().UnixMilli(), suffix)
}
