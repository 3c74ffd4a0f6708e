package semantic

// Counterpart is the async twin resolved for a method: the target member and
// the declared index of its cancellation parameter. TokenIndex is -1 for a
// plain async match that takes no cancellation signal.
type Counterpart struct {
	Target     *MethodSymbol
	TokenIndex int
}

// HasToken reports whether the counterpart accepts a cancellation signal.
func (c Counterpart) HasToken() bool {
	return c.TokenIndex >= 0
}

// CounterpartTable maps every method in a context to its async counterpart,
// computed once per run. Lookups at call sites then never re-derive the
// match from name strings.
type CounterpartTable struct {
	entries map[*MethodSymbol]Counterpart
}

// BuildCounterpartTable scans each type's own members once. For a method M
// the candidates are same-type members named M's name plus the Async suffix.
// A cancellable match has one extra parameter of the signal type and an
// otherwise equal list; failing that, a plain match has an equal list and no
// signal parameter. Parameter lists compare declared forms, so an extension
// method's receiver slot participates on both sides.
func BuildCounterpartTable(c *Context, signal *TypeSymbol) *CounterpartTable {
	t := &CounterpartTable{entries: map[*MethodSymbol]Counterpart{}}
	for _, typ := range c.Types() {
		for _, m := range typ.Methods {
			if cp, ok := matchCounterpart(typ, m, signal); ok {
				t.entries[m] = cp
			}
		}
	}
	return t
}

// Lookup returns the counterpart recorded for m.
func (t *CounterpartTable) Lookup(m *MethodSymbol) (Counterpart, bool) {
	cp, ok := t.entries[m]
	return cp, ok
}

// Len returns the number of methods with a resolved counterpart.
func (t *CounterpartTable) Len() int {
	return len(t.entries)
}

func matchCounterpart(typ *TypeSymbol, m *MethodSymbol, signal *TypeSymbol) (Counterpart, bool) {
	wanted := m.Name + AsyncSuffix
	var candidates []*MethodSymbol
	for _, cand := range typ.Methods {
		if cand.Name == wanted {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return Counterpart{}, false
	}

	// Cancellable pass: one extra parameter, exactly one of the signal type,
	// and removing it restores m's parameter list.
	for _, cand := range candidates {
		if len(cand.Parameters) != len(m.Parameters)+1 {
			continue
		}
		pos := signalPosition(cand.Parameters, signal)
		if pos < 0 {
			continue
		}
		if ParameterListEqual(removeParameter(cand.Parameters, pos), m.Parameters) {
			return Counterpart{Target: cand, TokenIndex: pos}, true
		}
	}

	// Plain pass: same list, no signal parameter anywhere.
	for _, cand := range candidates {
		if len(cand.Parameters) != len(m.Parameters) {
			continue
		}
		if signalPosition(cand.Parameters, signal) >= 0 {
			continue
		}
		if ParameterListEqual(cand.Parameters, m.Parameters) {
			return Counterpart{Target: cand, TokenIndex: -1}, true
		}
	}
	return Counterpart{}, false
}

// signalPosition returns the index of the single parameter of the signal
// type, or -1 when there is none or more than one.
func signalPosition(params []Parameter, signal *TypeSymbol) int {
	pos := -1
	for i, p := range params {
		if !isSignalType(p.Type, signal) {
			continue
		}
		if pos >= 0 {
			return -1
		}
		pos = i
	}
	return pos
}

func isSignalType(ref TypeRef, signal *TypeSymbol) bool {
	if ref.Symbol != nil {
		return ref.Symbol == signal
	}
	if signal == nil {
		return false
	}
	// Unresolved references fall back to the text comparison TypeRef.Equal
	// uses everywhere else.
	text := NormalizeTypeText(ref.Text)
	return text == signal.Name || text == NormalizeTypeText(signal.QualifiedName())
}

func removeParameter(params []Parameter, i int) []Parameter {
	out := make([]Parameter, 0, len(params)-1)
	out = append(out, params[:i]...)
	return append(out, params[i+1:]...)
}

// OverrideTable records, for each method declared with override or new,
// whether a generated async twin would still override anything. The modifiers
// survive only when some base type declares the twin's name itself, or
// declares the original method under the given marker attribute and with the
// same parameter list, meaning the base independently grows a compatible
// counterpart.
type OverrideTable struct {
	keep map[*MethodSymbol]bool
}

// BuildOverrideTable walks each relevant method's resolved base chain once.
func BuildOverrideTable(c *Context, marker string) *OverrideTable {
	t := &OverrideTable{keep: map[*MethodSymbol]bool{}}
	for _, typ := range c.Types() {
		for _, m := range typ.Methods {
			if !m.HasModifier("override") && !m.HasModifier("new") {
				continue
			}
			t.keep[m] = baseDefinesCounterpart(m, marker)
		}
	}
	return t
}

// Keep reports whether m's override/new modifiers carry over to its twins.
func (t *OverrideTable) Keep(m *MethodSymbol) bool {
	return t.keep[m]
}

func baseDefinesCounterpart(m *MethodSymbol, marker string) bool {
	if m.Container == nil {
		return false
	}
	twin := m.Name + AsyncSuffix
	seen := map[*TypeSymbol]bool{}
	for base := m.Container.Base(); base != nil && !seen[base]; base = base.Base() {
		seen[base] = true
		for _, bm := range base.Methods {
			if bm.Name == twin {
				return true
			}
			if bm.Name != m.Name {
				continue
			}
			if _, marked := bm.Attribute(marker); marked && ParameterListEqual(bm.Parameters, m.Parameters) {
				return true
			}
		}
	}
	return false
}
