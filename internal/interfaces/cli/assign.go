package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/shopspring/decimal"
)

const lineItemKey = "item_id"

// fill assigns key=value pairs to the form, then writes one line row per
// spec. Line rows beyond the current sheet are appended.
func fill(ed records.Editor, pairs, lines []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: expected key=value, got %q", ErrUsage, pair)
		}
		if err := ed.SetString(key, value); err != nil {
			return err
		}
	}

	if len(lines) == 0 {
		return nil
	}
	sheet := ed.Lines()
	if sheet == nil {
		return records.ErrNoLines
	}
	for i, spec := range lines {
		if i >= sheet.Len() {
			sheet.Add()
		}
		if err := setLine(ed, i, spec); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// setLine applies "item_id=..,quantity=..,unit_price=.." to row i. The item
// is a numeric id or "@text" matched against the item lookup.
func setLine(ed records.Editor, i int, spec string) error {
	sheet := ed.Lines()
	for _, part := range strings.Split(spec, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", ErrUsage, part)
		}
		value = strings.TrimSpace(value)

		switch key {
		case lineItemKey:
			id, err := lineItem(ed, i, value)
			if err != nil {
				return err
			}
			if err := ed.SelectLineItem(i, id); err != nil {
				return err
			}
		case "quantity", "unit_price":
			d, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("%s: invalid number %q", key, value)
			}
			if key == "quantity" {
				err = sheet.SetQuantity(i, d)
			} else {
				err = sheet.SetUnitPrice(i, d)
			}
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", records.ErrUnknownField, key)
		}
	}
	return nil
}

func lineItem(ed records.Editor, i int, value string) (uint, error) {
	if text, ok := strings.CutPrefix(value, "@"); ok {
		p, err := ed.LinePicker(i)
		if err != nil {
			return 0, err
		}
		if err := p.SelectMatch(text); err != nil {
			return 0, err
		}
		return p.Selected(), nil
	}
	id, err := strconv.ParseUint(value, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid id %q", lineItemKey, value)
	}
	return uint(id), nil
}

// resetLines clears the sheet so the given specs replace the document's
// lines instead of patching them
func resetLines(ed records.Editor) error {
	sheet := ed.Lines()
	if sheet == nil {
		return records.ErrNoLines
	}
	sheet.Reset()
	return nil
}
