package trade

import (
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/shared"
)

// PurchaseRequisition is a department's internal request to buy items
type PurchaseRequisition struct {
	shared.Record
	PRNumber     string `json:"pr_number" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	RequestDate  string `json:"request_date" gorm:"type:varchar(10);not null" binding:"required,datetime=2006-01-02"`
	DepartmentID uint   `json:"department_id" gorm:"index;not null" binding:"required"`
	RequestedBy  string `json:"requested_by" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	Remarks      string `json:"remarks" gorm:"type:varchar(500)" binding:"max=500"`
	LineSet

	DepartmentName string `json:"department_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (PurchaseRequisition) TableName() string { return "purchase_requisitions" }

// Label implements shared.Entity
func (p PurchaseRequisition) Label() string { return p.PRNumber }

// Denormalize fills the display names of the foreign keys
func (p *PurchaseRequisition) Denormalize(r shared.LabelResolver) {
	p.DepartmentName = r.Resolve(masterdata.ResourceDepartments, p.DepartmentID)
}

// PurchaseOrder is an order placed with a vendor for delivery to a warehouse
type PurchaseOrder struct {
	shared.Record
	PONumber    string `json:"po_number" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	OrderDate   string `json:"order_date" gorm:"type:varchar(10);not null" binding:"required,datetime=2006-01-02"`
	VendorID    uint   `json:"vendor_id" gorm:"index;not null" binding:"required"`
	WarehouseID uint   `json:"warehouse_id" gorm:"index;not null" binding:"required"`
	Remarks     string `json:"remarks" gorm:"type:varchar(500)" binding:"max=500"`
	LineSet

	VendorName    string `json:"vendor_name,omitempty" gorm:"-"`
	WarehouseName string `json:"warehouse_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string { return "purchase_orders" }

// Label implements shared.Entity
func (p PurchaseOrder) Label() string { return p.PONumber }

// Denormalize fills the display names of the foreign keys
func (p *PurchaseOrder) Denormalize(r shared.LabelResolver) {
	p.VendorName = r.Resolve(masterdata.ResourceVendors, p.VendorID)
	p.WarehouseName = r.Resolve(masterdata.ResourceWarehouses, p.WarehouseID)
}

// DeliveryChallan is the dispatch note accompanying goods sent to a customer
type DeliveryChallan struct {
	shared.Record
	DCNumber     string `json:"dc_number" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	DeliveryDate string `json:"delivery_date" gorm:"type:varchar(10);not null" binding:"required,datetime=2006-01-02"`
	CustomerID   uint   `json:"customer_id" gorm:"index;not null" binding:"required"`
	WarehouseID  uint   `json:"warehouse_id" gorm:"index;not null" binding:"required"`
	VehicleNo    string `json:"vehicle_no" gorm:"type:varchar(30)" binding:"max=30"`
	LineSet

	CustomerName  string `json:"customer_name,omitempty" gorm:"-"`
	WarehouseName string `json:"warehouse_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (DeliveryChallan) TableName() string { return "delivery_challans" }

// Label implements shared.Entity
func (d DeliveryChallan) Label() string { return d.DCNumber }

// Denormalize fills the display names of the foreign keys
func (d *DeliveryChallan) Denormalize(r shared.LabelResolver) {
	d.CustomerName = r.Resolve(masterdata.ResourceCustomers, d.CustomerID)
	d.WarehouseName = r.Resolve(masterdata.ResourceWarehouses, d.WarehouseID)
}
