package masterdata

import "github.com/metabooks/erp/internal/domain/shared"

// Vendor is a supplier posting to a payable account
type Vendor struct {
	shared.Record
	VendorCode    string `json:"vendor_code" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	VendorName    string `json:"vendor_name" gorm:"type:varchar(200);not null" binding:"required,max=200"`
	ContactPerson string `json:"contact_person" gorm:"type:varchar(100)" binding:"max=100"`
	Phone         string `json:"phone" gorm:"type:varchar(50)" binding:"max=50"`
	Email         string `json:"email" gorm:"type:varchar(100)" binding:"omitempty,email,max=100"`
	Address       string `json:"address" gorm:"type:varchar(500)" binding:"max=500"`
	AccountID     uint   `json:"account_id" gorm:"index;not null" binding:"required"`

	AccountName string `json:"account_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string { return "vendors" }

// Label implements shared.Entity
func (v Vendor) Label() string { return v.VendorName }

// Denormalize fills the display names of the foreign keys
func (v *Vendor) Denormalize(r shared.LabelResolver) {
	v.AccountName = r.Resolve(ResourceAccounts, v.AccountID)
}

// Customer is a buyer served by a sales person in a region
type Customer struct {
	shared.Record
	CustomerCode  string `json:"customer_code" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	CustomerName  string `json:"customer_name" gorm:"type:varchar(200);not null" binding:"required,max=200"`
	Phone         string `json:"phone" gorm:"type:varchar(50)" binding:"max=50"`
	Email         string `json:"email" gorm:"type:varchar(100)" binding:"omitempty,email,max=100"`
	Address       string `json:"address" gorm:"type:varchar(500)" binding:"max=500"`
	RegionID      uint   `json:"region_id" gorm:"index;not null" binding:"required"`
	SalesPersonID uint   `json:"sales_person_id" gorm:"index;not null" binding:"required"`
	AccountID     uint   `json:"account_id" gorm:"index;not null" binding:"required"`

	RegionName      string `json:"region_name,omitempty" gorm:"-"`
	SalesPersonName string `json:"sales_person_name,omitempty" gorm:"-"`
	AccountName     string `json:"account_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string { return "customers" }

// Label implements shared.Entity
func (c Customer) Label() string { return c.CustomerName }

// Denormalize fills the display names of the foreign keys
func (c *Customer) Denormalize(r shared.LabelResolver) {
	c.RegionName = r.Resolve(ResourceRegions, c.RegionID)
	c.SalesPersonName = r.Resolve(ResourceSalesPersons, c.SalesPersonID)
	c.AccountName = r.Resolve(ResourceAccounts, c.AccountID)
}

// SalesPerson is a member of the sales force
type SalesPerson struct {
	shared.Record
	SalesPersonCode string `json:"sales_person_code" gorm:"type:varchar(50);uniqueIndex;not null" binding:"required,max=50"`
	SalesPersonName string `json:"sales_person_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	Phone           string `json:"phone" gorm:"type:varchar(50)" binding:"max=50"`
	Email           string `json:"email" gorm:"type:varchar(100)" binding:"omitempty,email,max=100"`
	RegionID        uint   `json:"region_id" gorm:"index;not null" binding:"required"`
	DesignationID   uint   `json:"designation_id" gorm:"index;not null" binding:"required"`
	DepartmentID    uint   `json:"department_id" gorm:"index;not null" binding:"required"`

	RegionName      string `json:"region_name,omitempty" gorm:"-"`
	DesignationName string `json:"designation_name,omitempty" gorm:"-"`
	DepartmentName  string `json:"department_name,omitempty" gorm:"-"`
}

// TableName returns the table name for GORM
func (SalesPerson) TableName() string { return "sales_persons" }

// Label implements shared.Entity
func (s SalesPerson) Label() string { return s.SalesPersonName }

// Denormalize fills the display names of the foreign keys
func (s *SalesPerson) Denormalize(r shared.LabelResolver) {
	s.RegionName = r.Resolve(ResourceRegions, s.RegionID)
	s.DesignationName = r.Resolve(ResourceDesignations, s.DesignationID)
	s.DepartmentName = r.Resolve(ResourceDepartments, s.DepartmentID)
}
