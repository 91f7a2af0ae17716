package shared

// Reference is the tagged pair used wherever a foreign key is displayed:
// the authoritative id plus the label it resolved to when the lookup list
// was fetched. Only ID ever goes into a write payload.
type Reference struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// IsSet reports whether the reference points at a record
func (r Reference) IsSet() bool {
	return r.ID != 0
}

// References is a fetched lookup collection
type References []Reference

// Find returns the reference with the given id
func (rs References) Find(id uint) (Reference, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Reference{}, false
}

// LabelOf returns the label for id, or an empty string when id is unknown
func (rs References) LabelOf(id uint) string {
	r, _ := rs.Find(id)
	return r.Label
}

// ReferencesOf builds a lookup collection from entities
func ReferencesOf[T Entity](records []T) References {
	refs := make(References, 0, len(records))
	for _, r := range records {
		refs = append(refs, Reference{ID: r.GetID(), Label: r.Label()})
	}
	return refs
}

// LabelIndex is a LabelResolver over lookup collections keyed by resource
type LabelIndex map[string]References

// Resolve implements LabelResolver
func (li LabelIndex) Resolve(resource string, id uint) string {
	if id == 0 {
		return ""
	}
	return li[resource].LabelOf(id)
}
