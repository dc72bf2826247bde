package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type ChangeType string

const (
	ChangeOrderCreated   ChangeType = "order_created"
	ChangeOrderCancelled ChangeType = "order_cancelled"
)

type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id" swaggertype:"string" format:"uuid"`
	Name          string          `gorm:"type:varchar(255);not null;uniqueIndex:ux_products_name" json:"name"`
	Description   *string         `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price" swaggertype:"string"`
	StockQuantity int             `gorm:"type:int;not null;default:0" json:"stock_quantity"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id" swaggertype:"string" format:"uuid"`
	OrderNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:ux_orders_order_number" json:"order_number"`
	Status      OrderStatus     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount" swaggertype:"string"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem keeps a snapshot of the product name and price so the line
// survives product edits and deletion.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id" swaggertype:"string" format:"uuid"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_product" json:"order_id" swaggertype:"string" format:"uuid"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;uniqueIndex:ux_order_items_order_product" json:"product_id" swaggertype:"string" format:"uuid"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price" swaggertype:"string"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal" swaggertype:"string"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// InventoryLog is append-only.
type InventoryLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id" swaggertype:"string" format:"uuid"`
	ProductID      *uuid.UUID `gorm:"type:uuid;index" json:"product_id" swaggertype:"string" format:"uuid"`
	ChangeType     ChangeType `gorm:"type:text;not null" json:"change_type"`
	QuantityChange int        `gorm:"type:int;not null" json:"quantity_change"`
	Reason         string     `gorm:"type:text;not null" json:"reason"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index" json:"order_id" swaggertype:"string" format:"uuid"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (InventoryLog) TableName() string { return "inventory_logs" }

type OutboxEvent struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Topic       string         `gorm:"type:text;not null"`
	EventType   string         `gorm:"type:text;not null"`
	AggregateID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	Attempts    int            `gorm:"not null;default:0"`
	LastError   *string        `gorm:"type:text"`

	CreatedAt   time.Time  `gorm:"not null;default:now()"`
	PublishedAt *time.Time `gorm:"index"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }
