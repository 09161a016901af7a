package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cover is a phone case in the catalog. Stock is the number of sellable
// units and must never drop below zero.
type Cover struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Brand       string             `bson:"brand" json:"brand"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
	Stock       int                `bson:"stock" json:"stock"`
}

// CartItem is one line of an order: a cover reference, a quantity and the
// price snapshot taken when the customer added it to the cart.
type CartItem struct {
	CoverID  primitive.ObjectID `bson:"coverId" json:"productId"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusDelivered  OrderStatus = "Delivered"
	StatusHold       OrderStatus = "Hold"
	StatusCancelled  OrderStatus = "Cancelled"
)

func IsValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusHold, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Phone          string             `bson:"phone" json:"phone"`
	Address        string             `bson:"address" json:"address"`
	CartItems      []CartItem         `bson:"cartItems" json:"cartItems"`
	DeliveryCharge float64            `bson:"deliveryCharge" json:"deliveryCharge"`
	TotalPrice     float64            `bson:"totalPrice" json:"totalPrice"`
	Status         OrderStatus        `bson:"status" json:"status"`
	ConsignmentID  string             `bson:"consignmentId,omitempty" json:"consignmentId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// OrderSummary is the per-customer aggregate keyed by phone number.
type OrderSummary struct {
	Phone         string    `bson:"_id" json:"phone"`
	TotalOrders   int       `bson:"totalOrders" json:"totalOrders"`
	LastOrderDate time.Time `bson:"lastOrderDate" json:"lastOrderDate"`
}
