package masterdata

import (
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is a stocked article
type Item struct {
	shared.Record
	ItemCode    string          `json:"item_code" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	ItemName    string          `json:"item_name" gorm:"type:varchar(200);not null" binding:"required,max=200"`
	Description string          `json:"description" gorm:"type:varchar(500)" binding:"max=500"`
	Unit        string          `json:"unit" gorm:"type:varchar(20);not null" binding:"required,max=20"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(18,4);not null"`
	CategoryID  uint            `json:"category_id" gorm:"index;not null" binding:"required"`
	WarehouseID uint            `json:"warehouse_id" gorm:"index;not null" binding:"required"`

	CategoryName  string `json:"category_name,omitempty" gorm:"-"`
	WarehouseName string `json:"warehouse_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (Item) TableName() string { return "items" }

// Label implements shared.Entity
func (i Item) Label() string { return i.ItemName }

// Denormalize fills the display names of the foreign keys
func (i *Item) Denormalize(r shared.LabelResolver) {
	i.CategoryName = r.Resolve(ResourceCategories, i.CategoryID)
	i.WarehouseName = r.Resolve(ResourceWarehouses, i.WarehouseID)
}

// Category groups items
type Category struct {
	shared.Record
	CategoryName string `json:"category_name" gorm:"type:varchar(100);uniqueIndex;not null" binding:"required,max=100"`
	Description  string `json:"description" gorm:"type:varchar(500)" binding:"max=500"`
}

// TableName returns the table name for GORM
func (Category) TableName() string { return "categories" }

// Label implements shared.Entity
func (c Category) Label() string { return c.CategoryName }

// Warehouse is a stock location
type Warehouse struct {
	shared.Record
	WarehouseCode string `json:"warehouse_code" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	WarehouseName string `json:"warehouse_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	Location      string `json:"location" gorm:"type:varchar(200)" binding:"max=200"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string { return "warehouses" }

// Label implements shared.Entity
func (w Warehouse) Label() string { return w.WarehouseName }
