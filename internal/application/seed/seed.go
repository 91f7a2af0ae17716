// Package seed fills an empty installation with demo records. Every record
// goes through the same create form a user would fill, so seeded data obeys
// the form rules and the server's write checks.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/application/registry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Result counts the records created for one resource
type Result struct {
	Resource string `json:"resource" yaml:"resource"`
	Created  int    `json:"created" yaml:"created"`
}

// Seeder generates records with gofakeit
type Seeder struct {
	faker    *gofakeit.Faker
	logger   *zap.Logger
	now      func() time.Time
	maxLines int
}

// Option configures a Seeder
type Option func(*Seeder)

// WithSeed makes the generated values reproducible
func WithSeed(seed uint64) Option {
	return func(s *Seeder) { s.faker = gofakeit.New(seed) }
}

// WithLogger sets the progress logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Seeder) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxLines caps the line rows generated per document
func WithMaxLines(n int) Option {
	return func(s *Seeder) { s.maxLines = max(n, 1) }
}

// New creates a Seeder with a random seed
func New(opts ...Option) *Seeder {
	s := &Seeder{
		faker:    gofakeit.New(0),
		logger:   zap.NewNop(),
		now:      time.Now,
		maxLines: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run creates count records of every resource, parents before the records
// that reference them. It stops at the first failed save.
func (s *Seeder) Run(ctx context.Context, b registry.Binding, count int) ([]Result, error) {
	if count <= 0 {
		return nil, fmt.Errorf("seed count must be positive, got %d", count)
	}

	order := registry.DependencyOrder()
	results := make([]Result, 0, len(order))
	for _, e := range order {
		t := e.Table(b)
		created := 0
		for i := range count {
			if err := s.create(ctx, t, i); err != nil {
				results = append(results, Result{Resource: e.Resource, Created: created})
				return results, fmt.Errorf("seeding %s: %w", e.Resource, err)
			}
			created++
		}
		s.logger.Info("Seeded resource", zap.String("resource", e.Resource), zap.Int("created", created))
		results = append(results, Result{Resource: e.Resource, Created: created})
	}
	return results, nil
}

func (s *Seeder) create(ctx context.Context, t records.Table, seq int) error {
	ed, err := t.StartCreate(ctx)
	if err != nil {
		return err
	}
	if err := s.Fill(ed, t.Noun(), seq); err != nil {
		t.Cancel()
		return err
	}
	if err := t.Save(ctx); err != nil {
		t.Cancel()
		return err
	}
	return nil
}

// Fill assigns a generated value to every field of an open form and, for
// documents, generates between one and maxLines line rows
func (s *Seeder) Fill(ed records.Editor, noun string, seq int) error {
	for _, f := range ed.Fields() {
		if !f.Required && !s.faker.Bool() {
			continue
		}
		if f.Kind == records.KindReference {
			if err := s.pick(ed, f); err != nil {
				return err
			}
			continue
		}
		if err := ed.Set(f.Key, s.value(f, noun, seq)); err != nil {
			return err
		}
	}

	sheet := ed.Lines()
	if sheet == nil {
		return nil
	}
	rows := s.faker.Number(1, s.maxLines)
	for i := range rows {
		if i >= sheet.Len() {
			sheet.Add()
		}
		p, err := ed.LinePicker(i)
		if err != nil {
			return err
		}
		item, err := s.choose(p)
		if err != nil {
			return err
		}
		if err := ed.SelectLineItem(i, item); err != nil {
			return err
		}
		if err := sheet.SetQuantity(i, decimal.NewFromInt(int64(s.faker.Number(1, 20)))); err != nil {
			return err
		}
		if err := sheet.SetUnitPrice(i, s.price()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) pick(ed records.Editor, f records.FieldInfo) error {
	p, ok := ed.Picker(f.Key)
	if !ok {
		return fmt.Errorf("%s: no picker", f.Key)
	}
	id, err := s.choose(p)
	if err != nil {
		if !f.Required {
			return nil
		}
		return fmt.Errorf("%s: %w", f.Key, err)
	}
	return ed.Set(f.Key, id)
}

func (s *Seeder) choose(p *records.Picker) (uint, error) {
	opts := p.All()
	if len(opts) == 0 {
		return 0, fmt.Errorf("no %s to choose from", p.Noun())
	}
	return opts[s.faker.Number(0, len(opts)-1)].ID, nil
}

func (s *Seeder) price() decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Price(1, 1000)).Round(2)
}

// value generates a typed value for a non-reference field
func (s *Seeder) value(f records.FieldInfo, noun string, seq int) any {
	switch f.Kind {
	case records.KindDecimal:
		return s.price()
	case records.KindDate:
		now := s.now()
		return s.faker.DateRange(now.AddDate(-1, 0, 0), now).Format(records.DateLayout)
	case records.KindChoice:
		return s.faker.RandomString(f.Choices)
	}
	return s.text(f.Key, noun, seq)
}

// text picks a generator by field key. Codes and document numbers carry
// the sequence number so they stay unique within a run.
func (s *Seeder) text(key, noun string, seq int) string {
	f := s.faker
	switch {
	case strings.HasSuffix(key, "_code"), strings.HasSuffix(key, "_number"):
		return fmt.Sprintf("%s-%s%03d", initials(noun), strings.ToUpper(f.LetterN(3)), seq+1)
	case key == "category_name":
		return fmt.Sprintf("%s %s", f.ProductCategory(), strings.ToUpper(f.LetterN(3)))
	case key == "item_name":
		return f.ProductName()
	case key == "vendor_name", key == "customer_name":
		return f.Company()
	case key == "sales_person_name", key == "contact_person", key == "requested_by":
		return f.Name()
	case key == "designation_name":
		return f.JobTitle()
	case key == "department_name":
		return f.JobLevel()
	case key == "region_name":
		return f.State()
	case key == "account_name":
		return f.BuzzWord() + " " + f.RandomString([]string{"Payables", "Receivables", "Revenue", "Expenses", "Reserve"})
	case key == "warehouse_name":
		return f.City() + " Warehouse"
	case key == "location":
		return f.City()
	case key == "unit":
		return f.RandomString([]string{"pcs", "box", "kg", "m", "l"})
	case key == "email":
		return f.Email()
	case key == "phone":
		return f.Phone()
	case key == "address":
		return f.Address().Address
	case key == "vehicle_no":
		return fmt.Sprintf("%s-%04d", strings.ToUpper(f.LetterN(2)), f.Number(1, 9999))
	case key == "description", key == "remarks":
		return f.Sentence(6)
	}
	return f.Word()
}

// initials abbreviates a noun: "Sales Person" becomes "SP" and "Item" becomes "ITE"
func initials(noun string) string {
	words := strings.Fields(strings.ToUpper(noun))
	switch len(words) {
	case 0:
		return "REC"
	case 1:
		w := words[0]
		if len(w) <= 3 {
			return w
		}
		return w[:3]
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteByte(w[0])
	}
	return b.String()
}
