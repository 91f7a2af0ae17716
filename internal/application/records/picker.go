package records

import (
	"fmt"
	"strings"

	"github.com/metabooks/erp/internal/domain/shared"
	"golang.org/x/text/cases"
)

// Picker is a searchable single-select control over a lookup collection
type Picker struct {
	noun     string
	options  shared.References
	query    string
	selected uint
}

// NewPicker creates a picker over options with selected as the current
// choice. A selected id absent from options is kept so that editing a
// record never silently drops its foreign key.
func NewPicker(noun string, options shared.References, selected uint) *Picker {
	return &Picker{noun: noun, options: options, selected: selected}
}

// Noun returns the name of the picked entity
func (p *Picker) Noun() string {
	return p.noun
}

// Label is the trigger text: the resolved label of the selection, or
// "Select <Noun>" while unset
func (p *Picker) Label() string {
	if p.selected == 0 {
		return "Select " + p.noun
	}
	if ref, ok := p.options.Find(p.selected); ok {
		return ref.Label
	}
	return fmt.Sprintf("%s #%d", p.noun, p.selected)
}

// SetQuery sets the search text
func (p *Picker) SetQuery(q string) {
	p.query = q
}

// Query returns the search text
func (p *Picker) Query() string {
	return p.query
}

// All returns every option regardless of the search text
func (p *Picker) All() shared.References {
	out := make(shared.References, len(p.options))
	copy(out, p.options)
	return out
}

// Options returns the options whose label contains the search text
func (p *Picker) Options() shared.References {
	return p.search(p.query)
}

func (p *Picker) search(q string) shared.References {
	return Filter(p.options, q, func(r shared.Reference) []string {
		return []string{r.Label}
	})
}

// Selected returns the selected id, 0 when unset
func (p *Picker) Selected() uint {
	return p.selected
}

// Reference returns the selection as a tagged pair
func (p *Picker) Reference() shared.Reference {
	if p.selected == 0 {
		return shared.Reference{}
	}
	return shared.Reference{ID: p.selected, Label: p.options.LabelOf(p.selected)}
}

// Checked reports whether id is the current selection
func (p *Picker) Checked(id uint) bool {
	return id != 0 && id == p.selected
}

// Select makes id the selection. Selecting 0 clears it.
func (p *Picker) Select(id uint) error {
	if id == 0 {
		p.selected = 0
		return nil
	}
	if _, ok := p.options.Find(id); !ok {
		return fmt.Errorf("%w: %s #%d", ErrUnknownOption, p.noun, id)
	}
	p.selected = id
	return nil
}

// Clear unsets the selection
func (p *Picker) Clear() {
	p.selected = 0
}

// SelectMatch searches for text and selects the result. An option whose
// label equals text wins; otherwise the search must match exactly one
// option. The search text of the picker is left as it was.
func (p *Picker) SelectMatch(text string) error {
	matches := p.search(text)

	folder := cases.Fold()
	want := folder.String(strings.TrimSpace(text))
	for _, m := range matches {
		if folder.String(m.Label) == want {
			p.selected = m.ID
			return nil
		}
	}

	switch len(matches) {
	case 0:
		return fmt.Errorf("%w %q among %s options", ErrNoMatch, text, p.noun)
	case 1:
		p.selected = matches[0].ID
		return nil
	default:
		return fmt.Errorf("%w %q: %d %s options", ErrAmbiguousMatch, text, len(matches), p.noun)
	}
}
