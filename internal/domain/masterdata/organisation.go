package masterdata

import (
	"fmt"

	"github.com/metabooks/erp/internal/domain/shared"
)

// Region is a sales territory
type Region struct {
	shared.Record
	RegionCode string `json:"region_code" gorm:"type:varchar(20);uniqueIndex;not null" binding:"required,max=20"`
	RegionName string `json:"region_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
}

// TableName returns the table name for GORM
func (Region) TableName() string { return "regions" }

// Label implements shared.Entity
func (r Region) Label() string { return r.RegionName }

// Department is an organisational unit
type Department struct {
	shared.Record
	DepartmentCode string `json:"department_code" gorm:"type:varchar(20);uniqueIndex;not null" binding:"required,max=20"`
	DepartmentName string `json:"department_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	Description    string `json:"description" gorm:"type:varchar(500)" binding:"max=500"`
}

// TableName returns the table name for GORM
func (Department) TableName() string { return "departments" }

// Label implements shared.Entity
func (d Department) Label() string { return d.DepartmentName }

// Designation is a job title
type Designation struct {
	shared.Record
	DesignationCode string `json:"designation_code" gorm:"type:varchar(20);uniqueIndex;not null" binding:"required,max=20"`
	DesignationName string `json:"designation_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
}

// TableName returns the table name for GORM
func (Designation) TableName() string { return "designations" }

// Label implements shared.Entity
func (d Designation) Label() string { return d.DesignationName }

// AccountType classifies a ledger account
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every valid account type
var AccountTypes = []AccountType{
	AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense,
}

// IsValid checks if the type is a known AccountType
func (t AccountType) IsValid() bool {
	for _, v := range AccountTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Account is a ledger account in the chart of accounts
type Account struct {
	shared.Record
	AccountCode string      `json:"account_code" gorm:"type:varchar(20);uniqueIndex;not null" binding:"required,max=20"`
	AccountName string      `json:"account_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	AccountType AccountType `json:"account_type" gorm:"type:varchar(20);not null" binding:"required,oneof=asset liability equity income expense"`
}

// TableName returns the table name for GORM
func (Account) TableName() string { return "accounts" }

// Label implements shared.Entity. Accounts are picked by code and name.
func (a Account) Label() string {
	return fmt.Sprintf("%s - %s", a.AccountCode, a.AccountName)
}
