package registry

import (
	"context"
	"testing"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/domain/lineitem"
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue(t *testing.T) {
	entries := Catalogue()
	require.Len(t, entries, 13)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.Resource], "duplicate resource %s", e.Resource)
		seen[e.Resource] = true
		assert.Contains(t, Modules, e.Module)
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Noun)
		for _, dep := range e.Lookups {
			_, err := Lookup(dep)
			assert.NoError(t, err, "%s looks up unknown resource %s", e.Resource, dep)
		}
	}
}

func TestByModule(t *testing.T) {
	var names []string
	for _, e := range ByModule(ModuleInventory) {
		names = append(names, e.Resource)
	}
	assert.Equal(t, []string{"items", "categories", "warehouses"}, names)
	assert.Empty(t, ByModule("payroll"))
}

func TestLookup(t *testing.T) {
	e, err := Lookup(trade.ResourcePurchaseOrders)
	require.NoError(t, err)
	assert.Equal(t, "purchasing/purchase-orders", e.Path())
	assert.True(t, e.Lines)
	assert.Equal(t, []string{"vendors", "warehouses", "items"}, e.Lookups)

	_, err = Lookup("payroll")
	assert.ErrorIs(t, err, shared.ErrUnknownResource)
}

func TestDependencyOrder(t *testing.T) {
	order := DependencyOrder()
	require.Len(t, order, len(Catalogue()))

	pos := make(map[string]int)
	for i, e := range order {
		pos[e.Resource] = i
	}
	for _, e := range order {
		for _, dep := range e.Lookups {
			assert.Less(t, pos[dep], pos[e.Resource], "%s must come before %s", dep, e.Resource)
		}
	}
}

func TestSchemas_PayloadKeysMatchJSONTags(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"items", Items().PayloadKeys(), []string{"item_code", "item_name", "description", "unit", "price", "category_id", "warehouse_id"}},
		{"vendors", Vendors().PayloadKeys(), []string{"vendor_code", "vendor_name", "contact_person", "phone", "email", "address", "account_id"}},
		{"accounts", Accounts().PayloadKeys(), []string{"account_code", "account_name", "account_type"}},
		{"delivery challans", DeliveryChallans().PayloadKeys(), []string{"dc_number", "delivery_date", "customer_id", "warehouse_id", "vehicle_no", "lines", "subtotal", "tax", "grand_total"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.keys)
		})
	}
}

func TestSchemas_SearchCoversNameAndCode(t *testing.T) {
	it := masterdata.Item{ItemCode: "MS-01", ItemName: "Mouse", Description: "Wireless"}
	assert.Len(t, records.Filter([]masterdata.Item{it}, "ms-", Items().Search), 1)
	assert.Len(t, records.Filter([]masterdata.Item{it}, "WIRE", Items().Search), 1)
	assert.Empty(t, records.Filter([]masterdata.Item{it}, "lamp", Items().Search))
}

func TestSchemas_AccountTypeIsChoice(t *testing.T) {
	f, ok := Accounts().Field("account_type")
	require.True(t, ok)
	assert.Equal(t, records.KindChoice, f.Kind)
	assert.Len(t, f.Choices, len(masterdata.AccountTypes))
}

// fakeTransport serves one purchase order and records writes
type fakeTransport struct {
	payloads []records.Payload
}

func (f *fakeTransport) List(_ context.Context, _ string, out any) error {
	*out.(*[]trade.PurchaseOrder) = []trade.PurchaseOrder{{
		Record:     shared.Record{ID: 1},
		PONumber:   "PO-1",
		OrderDate:  "2024-05-01",
		VendorID:   1,
		VendorName: "Old Vendor Name",
		LineSet: trade.LineSet{Lines: []lineitem.Row{
			lineitem.NewRow(1, decimal.NewFromInt(2), decimal.NewFromInt(10)),
		}},
	}}
	return nil
}

func (f *fakeTransport) Create(_ context.Context, _ string, p records.Payload, _ any) error {
	f.payloads = append(f.payloads, p)
	return nil
}

func (f *fakeTransport) Update(_ context.Context, _ string, _ uint, p records.Payload, _ any) error {
	f.payloads = append(f.payloads, p)
	return nil
}

func (f *fakeTransport) Delete(context.Context, string, uint) error { return nil }

func TestEntry_Table(t *testing.T) {
	ctx := context.Background()
	tr := &fakeTransport{}
	lookups := records.LookupFunc(func(_ context.Context, resource string) (shared.References, error) {
		switch resource {
		case masterdata.ResourceVendors:
			return shared.References{{ID: 1, Label: "Acme"}}, nil
		case masterdata.ResourceWarehouses:
			return shared.References{{ID: 4, Label: "Main"}}, nil
		default:
			return shared.References{{ID: 1, Label: "Mouse"}}, nil
		}
	})

	e, err := Lookup(trade.ResourcePurchaseOrders)
	require.NoError(t, err)
	tbl := e.Table(Binding{Transport: tr, Lookups: lookups})

	require.NoError(t, tbl.Load(ctx))
	assert.Equal(t, [][]string{{"1", "PO-1", "2024-05-01", "Old Vendor Name", "", "0.00"}}, tbl.Rows())

	ed, err := tbl.StartEdit(ctx, 1)
	require.NoError(t, err)
	p, _ := ed.Picker("vendor_id")
	assert.Equal(t, "Acme", p.Label(), "label comes from the fresh lookup")

	require.NoError(t, ed.SetString("warehouse_id", "@main"))
	require.NoError(t, tbl.Save(ctx))

	require.Len(t, tr.payloads, 1)
	payload := tr.payloads[0]
	assert.NotContains(t, payload, "vendor_name")
	assert.Equal(t, uint(4), payload["warehouse_id"])
	assert.True(t, decimal.NewFromInt(22).Equal(payload["grand_total"].(decimal.Decimal)))
}
