package pivot

// Footnote is one footnote attached to a table. Values reference footnotes by
// index; a footnote referenced by no displayed cell, or with Show unset, is
// pruned from composed output.
type Footnote struct {
	Index   int
	Content *Value
	// Marker overrides the auto-generated marker when non-nil.
	Marker *Value
	Show   bool
}

// CreateFootnote ensures a footnote with the given index exists and sets its
// content. Footnotes with lower indexes that do not yet exist are created
// empty with Show set, so the footnote list is always dense.
func (t *Table) CreateFootnote(index int, content *Value) *Footnote {
	t.assertMutable()
	for len(t.Footnotes) <= index {
		t.Footnotes = append(t.Footnotes, &Footnote{Index: len(t.Footnotes), Show: true})
	}
	f := t.Footnotes[index]
	f.Content = content
	return f
}

// AddFootnote appends a new footnote with the given content and returns it.
func (t *Table) AddFootnote(content *Value) *Footnote {
	return t.CreateFootnote(len(t.Footnotes), content)
}

// MarkerValue returns the value to render as the footnote's marker: the
// explicit marker if set, a 1-based number when the look asks for numeric
// markers, and a lowercase alphabetic marker (a, b, ..., z, aa, ab, ...)
// otherwise.
func (f *Footnote) MarkerValue(pt *Table) *Value {
	if f.Marker != nil {
		return f.Marker
	}
	if pt != nil && pt.Look != nil && pt.Look.ShowNumericMarkers {
		return NewNumberFormat(float64(f.Index+1), F(40, 0))
	}
	return NewText(format26Adic(f.Index + 1))
}

// format26Adic formats a positive number in the bijective base-26 system
// used for alphabetic footnote markers: 1 -> a, 26 -> z, 27 -> aa.
func format26Adic(number int) string {
	var buf []byte
	for number > 0 {
		number--
		buf = append(buf, byte('a'+number%26))
		number /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
