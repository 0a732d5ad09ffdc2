package domain

import "time"

// CREATE TABLE public.orders (
//     order_id         BIGINT PRIMARY KEY,
//     customer_id      BIGINT NOT NULL,
//     customer_mobile  VARCHAR(15),
//     delivery_time    TIMESTAMPTZ NOT NULL
// );

type Order struct {
	OrderID        int64     `json:"order_id" gorm:"column:order_id;primaryKey;autoIncrement:false"`
	CustomerID     int64     `json:"customer_id" gorm:"column:customer_id;not null;index"`
	CustomerMobile string    `json:"customer_mobile" gorm:"column:customer_mobile;size:15"`
	DeliveryTime   time.Time `json:"delivery_time" gorm:"column:delivery_time;not null;index"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;references:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// CREATE TABLE public.order_items (
//     id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     order_id          BIGINT REFERENCES orders(order_id) ON DELETE CASCADE,
//     product_category  VARCHAR(100)
// );

type OrderItem struct {
	ID              uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID         int64  `json:"order_id" gorm:"column:order_id;not null;index"`
	ProductCategory string `json:"product_category" gorm:"column:product_category;size:100"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
