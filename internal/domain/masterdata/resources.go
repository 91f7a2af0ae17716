// Package masterdata holds the reference entities every module manages:
// items, parties, organisational units and the chart of accounts.
package masterdata

// Resource names. They double as lookup collection keys.
const (
	ResourceItems        = "items"
	ResourceCategories   = "categories"
	ResourceWarehouses   = "warehouses"
	ResourceVendors      = "vendors"
	ResourceCustomers    = "customers"
	ResourceSalesPersons = "sales-persons"
	ResourceRegions      = "regions"
	ResourceDepartments  = "departments"
	ResourceDesignations = "designations"
	ResourceAccounts     = "accounts"
)
