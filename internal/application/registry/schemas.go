package registry

import (
	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/domain/lineitem"
	md "github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/trade"
	"github.com/shopspring/decimal"
)

type (
	item        = md.Item
	category    = md.Category
	warehouse   = md.Warehouse
	vendor      = md.Vendor
	customer    = md.Customer
	salesPerson = md.SalesPerson
	region      = md.Region
	department  = md.Department
	designation = md.Designation
	account     = md.Account
)

// Items declares inventory items
func Items() *records.Schema[item] {
	return &records.Schema[item]{
		Module:   ModuleInventory,
		Resource: md.ResourceItems,
		Noun:     "Item",
		Title:    "Items",
		Fields: []records.Field[item]{
			records.Text("item_code", "Item Code", func(i item) string { return i.ItemCode }),
			records.Text("item_name", "Item Name", func(i item) string { return i.ItemName }),
			records.Text("description", "Description", func(i item) string { return i.Description }).Optional(),
			records.Text("unit", "Unit", func(i item) string { return i.Unit }),
			records.Decimal("price", "Price", func(i item) decimal.Decimal { return i.Price }),
			records.Ref("category_id", "Category", md.ResourceCategories, "Category", func(i item) uint { return i.CategoryID }),
			records.Ref("warehouse_id", "Warehouse", md.ResourceWarehouses, "Warehouse", func(i item) uint { return i.WarehouseID }),
		},
		Columns: []records.Column[item]{
			{Title: "Code", Text: func(i item) string { return i.ItemCode }},
			{Title: "Name", Text: func(i item) string { return i.ItemName }},
			{Title: "Unit", Text: func(i item) string { return i.Unit }},
			{Title: "Price", Text: func(i item) string { return i.Price.StringFixed(2) }},
			{Title: "Category", Text: func(i item) string { return i.CategoryName }},
			{Title: "Warehouse", Text: func(i item) string { return i.WarehouseName }},
		},
		Search: func(i item) []string { return []string{i.ItemName, i.ItemCode, i.Description} },
	}
}

// Categories declares item categories
func Categories() *records.Schema[category] {
	return &records.Schema[category]{
		Module:   ModuleInventory,
		Resource: md.ResourceCategories,
		Noun:     "Category",
		Title:    "Categories",
		Fields: []records.Field[category]{
			records.Text("category_name", "Category Name", func(c category) string { return c.CategoryName }),
			records.Text("description", "Description", func(c category) string { return c.Description }).Optional(),
		},
		Columns: []records.Column[category]{
			{Title: "Name", Text: func(c category) string { return c.CategoryName }},
			{Title: "Description", Text: func(c category) string { return c.Description }},
		},
		Search: func(c category) []string { return []string{c.CategoryName, c.Description} },
	}
}

// Warehouses declares stock locations
func Warehouses() *records.Schema[warehouse] {
	return &records.Schema[warehouse]{
		Module:   ModuleInventory,
		Resource: md.ResourceWarehouses,
		Noun:     "Warehouse",
		Title:    "Warehouses",
		Fields: []records.Field[warehouse]{
			records.Text("warehouse_code", "Warehouse Code", func(w warehouse) string { return w.WarehouseCode }),
			records.Text("warehouse_name", "Warehouse Name", func(w warehouse) string { return w.WarehouseName }),
			records.Text("location", "Location", func(w warehouse) string { return w.Location }).Optional(),
		},
		Columns: []records.Column[warehouse]{
			{Title: "Code", Text: func(w warehouse) string { return w.WarehouseCode }},
			{Title: "Name", Text: func(w warehouse) string { return w.WarehouseName }},
			{Title: "Location", Text: func(w warehouse) string { return w.Location }},
		},
		Search: func(w warehouse) []string { return []string{w.WarehouseName, w.WarehouseCode, w.Location} },
	}
}

// Vendors declares suppliers
func Vendors() *records.Schema[vendor] {
	return &records.Schema[vendor]{
		Module:   ModulePurchasing,
		Resource: md.ResourceVendors,
		Noun:     "Vendor",
		Title:    "Vendors",
		Fields: []records.Field[vendor]{
			records.Text("vendor_code", "Vendor Code", func(v vendor) string { return v.VendorCode }),
			records.Text("vendor_name", "Vendor Name", func(v vendor) string { return v.VendorName }),
			records.Text("contact_person", "Contact Person", func(v vendor) string { return v.ContactPerson }).Optional(),
			records.Text("phone", "Phone", func(v vendor) string { return v.Phone }).Optional(),
			records.Text("email", "Email", func(v vendor) string { return v.Email }).Optional(),
			records.Text("address", "Address", func(v vendor) string { return v.Address }).Optional(),
			records.Ref("account_id", "Account", md.ResourceAccounts, "Account", func(v vendor) uint { return v.AccountID }),
		},
		Columns: []records.Column[vendor]{
			{Title: "Code", Text: func(v vendor) string { return v.VendorCode }},
			{Title: "Name", Text: func(v vendor) string { return v.VendorName }},
			{Title: "Phone", Text: func(v vendor) string { return v.Phone }},
			{Title: "Account", Text: func(v vendor) string { return v.AccountName }},
		},
		Search: func(v vendor) []string { return []string{v.VendorName, v.VendorCode, v.ContactPerson} },
	}
}

// Customers declares buyers
func Customers() *records.Schema[customer] {
	return &records.Schema[customer]{
		Module:   ModuleSales,
		Resource: md.ResourceCustomers,
		Noun:     "Customer",
		Title:    "Customers",
		Fields: []records.Field[customer]{
			records.Text("customer_code", "Customer Code", func(c customer) string { return c.CustomerCode }),
			records.Text("customer_name", "Customer Name", func(c customer) string { return c.CustomerName }),
			records.Text("phone", "Phone", func(c customer) string { return c.Phone }).Optional(),
			records.Text("email", "Email", func(c customer) string { return c.Email }).Optional(),
			records.Text("address", "Address", func(c customer) string { return c.Address }).Optional(),
			records.Ref("region_id", "Region", md.ResourceRegions, "Region", func(c customer) uint { return c.RegionID }),
			records.Ref("sales_person_id", "Sales Person", md.ResourceSalesPersons, "Sales Person", func(c customer) uint { return c.SalesPersonID }),
			records.Ref("account_id", "Account", md.ResourceAccounts, "Account", func(c customer) uint { return c.AccountID }),
		},
		Columns: []records.Column[customer]{
			{Title: "Code", Text: func(c customer) string { return c.CustomerCode }},
			{Title: "Name", Text: func(c customer) string { return c.CustomerName }},
			{Title: "Region", Text: func(c customer) string { return c.RegionName }},
			{Title: "Sales Person", Text: func(c customer) string { return c.SalesPersonName }},
			{Title: "Account", Text: func(c customer) string { return c.AccountName }},
		},
		Search: func(c customer) []string { return []string{c.CustomerName, c.CustomerCode, c.Email} },
	}
}

// SalesPersons declares the sales team
func SalesPersons() *records.Schema[salesPerson] {
	return &records.Schema[salesPerson]{
		Module:   ModuleSales,
		Resource: md.ResourceSalesPersons,
		Noun:     "Sales Person",
		Title:    "Sales Persons",
		Fields: []records.Field[salesPerson]{
			records.Text("sales_person_code", "Code", func(s salesPerson) string { return s.SalesPersonCode }),
			records.Text("sales_person_name", "Name", func(s salesPerson) string { return s.SalesPersonName }),
			records.Text("phone", "Phone", func(s salesPerson) string { return s.Phone }).Optional(),
			records.Text("email", "Email", func(s salesPerson) string { return s.Email }).Optional(),
			records.Ref("region_id", "Region", md.ResourceRegions, "Region", func(s salesPerson) uint { return s.RegionID }),
			records.Ref("designation_id", "Designation", md.ResourceDesignations, "Designation", func(s salesPerson) uint { return s.DesignationID }),
			records.Ref("department_id", "Department", md.ResourceDepartments, "Department", func(s salesPerson) uint { return s.DepartmentID }),
		},
		Columns: []records.Column[salesPerson]{
			{Title: "Code", Text: func(s salesPerson) string { return s.SalesPersonCode }},
			{Title: "Name", Text: func(s salesPerson) string { return s.SalesPersonName }},
			{Title: "Region", Text: func(s salesPerson) string { return s.RegionName }},
			{Title: "Designation", Text: func(s salesPerson) string { return s.DesignationName }},
			{Title: "Department", Text: func(s salesPerson) string { return s.DepartmentName }},
		},
		Search: func(s salesPerson) []string { return []string{s.SalesPersonName, s.SalesPersonCode, s.Email} },
	}
}

// Regions declares sales regions
func Regions() *records.Schema[region] {
	return &records.Schema[region]{
		Module:   ModuleSales,
		Resource: md.ResourceRegions,
		Noun:     "Region",
		Title:    "Regions",
		Fields: []records.Field[region]{
			records.Text("region_code", "Region Code", func(r region) string { return r.RegionCode }),
			records.Text("region_name", "Region Name", func(r region) string { return r.RegionName }),
		},
		Columns: []records.Column[region]{
			{Title: "Code", Text: func(r region) string { return r.RegionCode }},
			{Title: "Name", Text: func(r region) string { return r.RegionName }},
		},
		Search: func(r region) []string { return []string{r.RegionName, r.RegionCode} },
	}
}

// Departments declares organisational departments
func Departments() *records.Schema[department] {
	return &records.Schema[department]{
		Module:   ModuleHR,
		Resource: md.ResourceDepartments,
		Noun:     "Department",
		Title:    "Departments",
		Fields: []records.Field[department]{
			records.Text("department_code", "Department Code", func(d department) string { return d.DepartmentCode }),
			records.Text("department_name", "Department Name", func(d department) string { return d.DepartmentName }),
			records.Text("description", "Description", func(d department) string { return d.Description }).Optional(),
		},
		Columns: []records.Column[department]{
			{Title: "Code", Text: func(d department) string { return d.DepartmentCode }},
			{Title: "Name", Text: func(d department) string { return d.DepartmentName }},
			{Title: "Description", Text: func(d department) string { return d.Description }},
		},
		Search: func(d department) []string { return []string{d.DepartmentName, d.DepartmentCode, d.Description} },
	}
}

// Designations declares job titles
func Designations() *records.Schema[designation] {
	return &records.Schema[designation]{
		Module:   ModuleHR,
		Resource: md.ResourceDesignations,
		Noun:     "Designation",
		Title:    "Designations",
		Fields: []records.Field[designation]{
			records.Text("designation_code", "Designation Code", func(d designation) string { return d.DesignationCode }),
			records.Text("designation_name", "Designation Name", func(d designation) string { return d.DesignationName }),
		},
		Columns: []records.Column[designation]{
			{Title: "Code", Text: func(d designation) string { return d.DesignationCode }},
			{Title: "Name", Text: func(d designation) string { return d.DesignationName }},
		},
		Search: func(d designation) []string { return []string{d.DesignationName, d.DesignationCode} },
	}
}

// Accounts declares the chart of accounts
func Accounts() *records.Schema[account] {
	types := make([]string, len(md.AccountTypes))
	for i, t := range md.AccountTypes {
		types[i] = string(t)
	}
	return &records.Schema[account]{
		Module:   ModuleAccounting,
		Resource: md.ResourceAccounts,
		Noun:     "Account",
		Title:    "Chart of Accounts",
		Fields: []records.Field[account]{
			records.Text("account_code", "Account Code", func(a account) string { return a.AccountCode }),
			records.Text("account_name", "Account Name", func(a account) string { return a.AccountName }),
			records.Choice("account_type", "Account Type", types, func(a account) string { return string(a.AccountType) }),
		},
		Columns: []records.Column[account]{
			{Title: "Code", Text: func(a account) string { return a.AccountCode }},
			{Title: "Name", Text: func(a account) string { return a.AccountName }},
			{Title: "Type", Text: func(a account) string { return string(a.AccountType) }},
		},
		Search: func(a account) []string { return []string{a.AccountName, a.AccountCode, string(a.AccountType)} },
	}
}

// PurchaseRequisitions declares internal purchase requests
func PurchaseRequisitions() *records.Schema[trade.PurchaseRequisition] {
	type pr = trade.PurchaseRequisition
	return &records.Schema[pr]{
		Module:   ModulePurchasing,
		Resource: trade.ResourcePurchaseRequisitions,
		Noun:     "Purchase Requisition",
		Title:    "Purchase Requisitions",
		Fields: []records.Field[pr]{
			records.Text("pr_number", "PR Number", func(p pr) string { return p.PRNumber }),
			records.Date("request_date", "Request Date", func(p pr) string { return p.RequestDate }),
			records.Ref("department_id", "Department", md.ResourceDepartments, "Department", func(p pr) uint { return p.DepartmentID }),
			records.Text("requested_by", "Requested By", func(p pr) string { return p.RequestedBy }),
			records.Text("remarks", "Remarks", func(p pr) string { return p.Remarks }).Optional(),
		},
		Columns: []records.Column[pr]{
			{Title: "PR Number", Text: func(p pr) string { return p.PRNumber }},
			{Title: "Date", Text: func(p pr) string { return p.RequestDate }},
			{Title: "Department", Text: func(p pr) string { return p.DepartmentName }},
			{Title: "Requested By", Text: func(p pr) string { return p.RequestedBy }},
			{Title: "Total", Text: func(p pr) string { return p.GrandTotal.StringFixed(2) }},
		},
		Search: func(p pr) []string { return []string{p.PRNumber, p.RequestedBy, p.DepartmentName} },
		Lines:  func(p pr) []lineitem.Row { return p.Lines },
	}
}

// PurchaseOrders declares orders placed with vendors
func PurchaseOrders() *records.Schema[trade.PurchaseOrder] {
	type po = trade.PurchaseOrder
	return &records.Schema[po]{
		Module:   ModulePurchasing,
		Resource: trade.ResourcePurchaseOrders,
		Noun:     "Purchase Order",
		Title:    "Purchase Orders",
		Fields: []records.Field[po]{
			records.Text("po_number", "PO Number", func(p po) string { return p.PONumber }),
			records.Date("order_date", "Order Date", func(p po) string { return p.OrderDate }),
			records.Ref("vendor_id", "Vendor", md.ResourceVendors, "Vendor", func(p po) uint { return p.VendorID }),
			records.Ref("warehouse_id", "Warehouse", md.ResourceWarehouses, "Warehouse", func(p po) uint { return p.WarehouseID }),
			records.Text("remarks", "Remarks", func(p po) string { return p.Remarks }).Optional(),
		},
		Columns: []records.Column[po]{
			{Title: "PO Number", Text: func(p po) string { return p.PONumber }},
			{Title: "Date", Text: func(p po) string { return p.OrderDate }},
			{Title: "Vendor", Text: func(p po) string { return p.VendorName }},
			{Title: "Warehouse", Text: func(p po) string { return p.WarehouseName }},
			{Title: "Total", Text: func(p po) string { return p.GrandTotal.StringFixed(2) }},
		},
		Search: func(p po) []string { return []string{p.PONumber, p.VendorName, p.Remarks} },
		Lines:  func(p po) []lineitem.Row { return p.Lines },
	}
}

// DeliveryChallans declares goods dispatched to customers
func DeliveryChallans() *records.Schema[trade.DeliveryChallan] {
	type dc = trade.DeliveryChallan
	return &records.Schema[dc]{
		Module:   ModuleSales,
		Resource: trade.ResourceDeliveryChallans,
		Noun:     "Delivery Challan",
		Title:    "Delivery Challans",
		Fields: []records.Field[dc]{
			records.Text("dc_number", "DC Number", func(d dc) string { return d.DCNumber }),
			records.Date("delivery_date", "Delivery Date", func(d dc) string { return d.DeliveryDate }),
			records.Ref("customer_id", "Customer", md.ResourceCustomers, "Customer", func(d dc) uint { return d.CustomerID }),
			records.Ref("warehouse_id", "Warehouse", md.ResourceWarehouses, "Warehouse", func(d dc) uint { return d.WarehouseID }),
			records.Text("vehicle_no", "Vehicle No", func(d dc) string { return d.VehicleNo }).Optional(),
		},
		Columns: []records.Column[dc]{
			{Title: "DC Number", Text: func(d dc) string { return d.DCNumber }},
			{Title: "Date", Text: func(d dc) string { return d.DeliveryDate }},
			{Title: "Customer", Text: func(d dc) string { return d.CustomerName }},
			{Title: "Warehouse", Text: func(d dc) string { return d.WarehouseName }},
			{Title: "Total", Text: func(d dc) string { return d.GrandTotal.StringFixed(2) }},
		},
		Search: func(d dc) []string { return []string{d.DCNumber, d.CustomerName, d.VehicleNo} },
		Lines:  func(d dc) []lineitem.Row { return d.Lines },
	}
}
