package framework

// Direction states which way values flow between a register and its element.
type Direction string

const (
	DirectionRead   Direction = "read"   // register value is pushed into the element each read cycle
	DirectionWrite  Direction = "write"  // element events write the element value to the register
	DirectionHybrid Direction = "hybrid" // both, independently
)

// readable reports whether records with this direction receive read-cycle values.
func (d Direction) readable() bool { return d == DirectionRead || d == DirectionHybrid }

// writable reports whether records with this direction carry a UI-event listener.
func (d Direction) writable() bool { return d == DirectionWrite || d == DirectionHybrid }

// BindingRecord associates one device register with one UI element. After
// registration Template and Binding are fully resolved scalar names; range
// notation never survives expansion.
type BindingRecord struct {
	Class     string // free-form category tag, uninterpreted here
	Template  string // UI element identifier, unique table key
	Binding   string // device register name
	Direction Direction
	Event     string // UI event that triggers a write; set for write/hybrid
}

// bindingTable stores all records keyed by Template, with read and write
// views derived from each record's direction. Hybrid records appear in both.
type bindingTable struct {
	all   map[string]BindingRecord
	read  map[string]BindingRecord
	write map[string]BindingRecord
}

func newBindingTable() *bindingTable {
	return &bindingTable{
		all:   make(map[string]BindingRecord),
		read:  make(map[string]BindingRecord),
		write: make(map[string]BindingRecord),
	}
}

// put stores rec under rec.Template, replacing any previous record and its
// view entries so last write wins across all three views.
func (t *bindingTable) put(rec BindingRecord) {
	t.delete(rec.Template)
	t.all[rec.Template] = rec
	if rec.Direction.readable() {
		t.read[rec.Template] = rec
	}
	if rec.Direction.writable() {
		t.write[rec.Template] = rec
	}
}

func (t *bindingTable) get(template string) (BindingRecord, bool) {
	rec, ok := t.all[template]
	return rec, ok
}

// delete removes the record from every view. Missing keys are a no-op so
// that put can call it unconditionally.
func (t *bindingTable) delete(template string) {
	delete(t.all, template)
	delete(t.read, template)
	delete(t.write, template)
}

func (t *bindingTable) len() int { return len(t.all) }

// forEachReadBinding visits every record in the read view. Iteration order
// is not significant; value routing is by register name.
func (t *bindingTable) forEachReadBinding(fn func(rec BindingRecord)) {
	for _, rec := range t.read {
		fn(rec)
	}
}

// writeBindings returns a snapshot of the write view.
func (t *bindingTable) writeBindings() []BindingRecord {
	out := make([]BindingRecord, 0, len(t.write))
	for _, rec := range t.write {
		out = append(out, rec)
	}
	return out
}
