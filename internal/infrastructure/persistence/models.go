package persistence

import (
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/trade"
)

// Models lists every persisted entity in creation order
func Models() []any {
	return []any{
		&masterdata.Category{},
		&masterdata.Warehouse{},
		&masterdata.Account{},
		&masterdata.Region{},
		&masterdata.Department{},
		&masterdata.Designation{},
		&masterdata.Item{},
		&masterdata.Vendor{},
		&masterdata.SalesPerson{},
		&masterdata.Customer{},
		&trade.PurchaseRequisition{},
		&trade.PurchaseOrder{},
		&trade.DeliveryChallan{},
	}
}
