package models

// OrderItem snapshots the product at sale time so reporting survives catalog
// edits and deletions.
type OrderItem struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint    `gorm:"column:order_id;not null;index"`
	ProductID   *string `gorm:"column:product_id;size:20;constraint:OnDelete:SET NULL"`
	ProductName string  `gorm:"column:product_name;size:160;not null"`
	ProductSKU  string  `gorm:"column:product_sku;size:64;not null"`
	Quantity    int     `gorm:"column:quantity;not null"`
	UnitPrice   int     `gorm:"column:unit_price;not null"`
	PriceBase   int     `gorm:"column:price_base;not null"`
	DiscountPct int     `gorm:"column:discount_pct;not null;default:0"`
}

// LineTotal is the charged amount for this line.
func (i OrderItem) LineTotal() int {
	return i.Quantity * i.UnitPrice
}
