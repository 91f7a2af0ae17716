package records

import (
	"context"
	"errors"
	"testing"

	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mouseAndLamp() *memorySource[stockItem] {
	return newMemorySource(buildStockItem,
		stockItem{ID: 1, Name: "Mouse", Qty: dec("10")},
		stockItem{ID: 2, Name: "Lamp", Qty: dec("3")},
	)
}

func TestCollection_MouseAndLamp(t *testing.T) {
	ctx := context.Background()
	src := mouseAndLamp()
	c := NewCollection(stockSchema(), src, staticLookups(testLookups))

	require.NoError(t, c.Load(ctx))
	c.SetQuery("mo")
	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, uint(1), visible[0].ID)

	f, err := c.StartEdit(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, f.Set("qty", dec("5")))
	require.NoError(t, c.Save(ctx))

	assert.Equal(t, ModeClosed, c.State().Mode())
	list, err := src.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, dec("5").Equal(list[1].Qty))

	rec, ok := c.Find(2)
	require.True(t, ok)
	assert.True(t, dec("5").Equal(rec.Qty), "collection reloads after save")
}

func TestCollection_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("failure keeps stale list", func(t *testing.T) {
		src := mouseAndLamp()
		rec := &recorder{}
		c := NewCollection(stockSchema(), src, staticLookups(testLookups), WithNotifier(rec))
		require.NoError(t, c.Load(ctx))

		src.listErr = errors.New("connection refused")
		err := c.Load(ctx)
		require.Error(t, err)
		assert.Len(t, c.Records(), 2)
		assert.Equal(t, LevelError, rec.last().Level)
	})

	t.Run("reports success", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("Notify", mock.Anything, mock.MatchedBy(func(x Notice) bool {
			return x.Level == LevelInfo && x.Title == "Items"
		})).Once()

		c := NewCollection(stockSchema(), mouseAndLamp(), staticLookups(testLookups), WithNotifier(n))
		require.NoError(t, c.Load(ctx))
		assert.True(t, c.Loaded())
		n.AssertExpectations(t)
	})
}

func TestCollection_Create(t *testing.T) {
	ctx := context.Background()
	src := mouseAndLamp()
	rec := &recorder{}
	c := NewCollection(stockSchema(), src, staticLookups(testLookups), WithNotifier(rec))
	require.NoError(t, c.Load(ctx))

	f, err := c.StartCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeCreating, c.State().Mode())
	_, editing := c.State().Record()
	assert.False(t, editing)

	require.NoError(t, f.Set("name", "Keyboard"))
	require.NoError(t, f.Set("qty", dec("4")))
	require.NoError(t, f.SetString("shelf_id", "@bottom"))
	require.NoError(t, c.Save(ctx))

	require.Len(t, src.creates, 1)
	assert.ElementsMatch(t, []string{"name", "code", "qty", "shelf_id"}, keysOf(src.creates[0]))
	assert.Equal(t, uint(8), src.creates[0]["shelf_id"])
	assert.Len(t, c.Records(), 3)
	assert.Contains(t, rec.levels(), LevelSuccess)
}

func TestCollection_SaveValidationKeepsFormOpen(t *testing.T) {
	ctx := context.Background()
	src := mouseAndLamp()
	rec := &recorder{}
	c := NewCollection(stockSchema(), src, staticLookups(testLookups), WithNotifier(rec))

	_, err := c.StartCreate(ctx)
	require.NoError(t, err)

	err = c.Save(ctx)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, src.creates, "save is never called with required fields unset")
	assert.Equal(t, ModeCreating, c.State().Mode())
	assert.Equal(t, LevelWarning, rec.last().Level)
}

func TestCollection_SaveFailureKeepsFormOpen(t *testing.T) {
	ctx := context.Background()
	src := mouseAndLamp()
	rec := &recorder{}
	c := NewCollection(stockSchema(), src, staticLookups(testLookups), WithNotifier(rec))
	require.NoError(t, c.Load(ctx))

	f, err := c.StartEdit(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.Set("name", "Trackball"))

	src.writeErr = errors.New("server unavailable")
	err = c.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, ModeEditing, c.State().Mode())
	open, ok := c.Form()
	require.True(t, ok)
	assert.Equal(t, "Trackball", open.Value("name"))
	assert.Equal(t, LevelError, rec.last().Level)

	src.writeErr = nil
	require.NoError(t, c.Save(ctx))
	assert.Equal(t, ModeClosed, c.State().Mode())
	got, _ := c.Find(1)
	assert.Equal(t, "Trackball", got.Name)
}

func TestCollection_SaveWithoutForm(t *testing.T) {
	c := NewCollection(stockSchema(), mouseAndLamp(), staticLookups(testLookups))
	assert.ErrorIs(t, c.Save(context.Background()), ErrFormClosed)
}

func TestCollection_LookupFailureKeepsStateClosed(t *testing.T) {
	ctx := context.Background()
	lookups := LookupFunc(func(_ context.Context, resource string) (shared.References, error) {
		return nil, errors.New("timeout")
	})
	c := NewCollection(stockSchema(), mouseAndLamp(), lookups)

	_, err := c.StartCreate(ctx)
	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "shelves", lerr.Resource)
	assert.Equal(t, ModeClosed, c.State().Mode())
	_, ok := c.Form()
	assert.False(t, ok)
}

func TestCollection_StartEditUnknownRecord(t *testing.T) {
	c := NewCollection(stockSchema(), mouseAndLamp(), staticLookups(testLookups))
	_, err := c.StartEdit(context.Background(), 1)
	assert.ErrorIs(t, err, shared.ErrNotFound, "records must be loaded before editing")
}

func TestCollection_Cancel(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(stockSchema(), mouseAndLamp(), staticLookups(testLookups))
	require.NoError(t, c.Load(ctx))
	_, err := c.StartEdit(ctx, 1)
	require.NoError(t, err)

	c.Cancel()
	assert.Equal(t, ModeClosed, c.State().Mode())
	_, ok := c.State().Record()
	assert.False(t, ok)
}

func TestCollection_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed delete is verified by refetch", func(t *testing.T) {
		src := mouseAndLamp()
		var prompt string
		confirm := ConfirmFunc(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return true, nil
		})
		c := NewCollection(stockSchema(), src, staticLookups(testLookups), WithConfirmer(confirm))
		require.NoError(t, c.Load(ctx))
		before := src.lists

		require.NoError(t, c.Delete(ctx, 2))
		assert.Equal(t, `Delete Item "Lamp"?`, prompt)
		assert.Equal(t, before+1, src.lists)
		_, ok := c.Find(2)
		assert.False(t, ok)
	})

	t.Run("refused delete does nothing", func(t *testing.T) {
		src := mouseAndLamp()
		c := NewCollection(stockSchema(), src, staticLookups(testLookups), WithConfirmer(confirmAlways(false)))
		require.NoError(t, c.Load(ctx))

		assert.ErrorIs(t, c.Delete(ctx, 2), ErrDeleteCanceled)
		list, _ := src.List(ctx)
		assert.Len(t, list, 2)
	})

	t.Run("default confirmer refuses", func(t *testing.T) {
		c := NewCollection(stockSchema(), mouseAndLamp(), staticLookups(testLookups))
		assert.ErrorIs(t, c.Delete(ctx, 1), ErrDeleteCanceled)
	})

	t.Run("failure is returned and reported", func(t *testing.T) {
		src := mouseAndLamp()
		rec := &recorder{}
		c := NewCollection(stockSchema(), src, staticLookups(testLookups),
			WithConfirmer(confirmAlways(true)), WithNotifier(rec))
		require.NoError(t, c.Load(ctx))
		before := src.lists

		err := c.Delete(ctx, 99)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, LevelError, rec.last().Level)
		assert.Equal(t, before, src.lists, "no refetch after a failed delete")
	})
}

func TestCollection_Table(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(stockSchema(), mouseAndLamp(), staticLookups(testLookups))
	tbl := c.Table()

	require.NoError(t, tbl.Load(ctx))
	assert.Equal(t, "inventory/stock", tbl.Path())
	assert.Equal(t, []string{"ID", "Name", "Qty"}, tbl.Columns())
	assert.Equal(t, [][]string{{"1", "Mouse", "10"}, {"2", "Lamp", "3"}}, tbl.Rows())
	assert.Equal(t, 2, tbl.Len())

	tbl.SetQuery("LAM")
	assert.Len(t, tbl.Visible(), 1)

	ed, err := tbl.StartEdit(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, ModeEditing, tbl.Mode())
	require.NoError(t, ed.SetString("qty", "5"))
	require.NoError(t, tbl.Save(ctx))

	rec, ok := tbl.Record(2)
	require.True(t, ok)
	assert.True(t, dec("5").Equal(rec.(stockItem).Qty))
	_, open := tbl.Editor()
	assert.False(t, open)
}
