package pwf

import "fmt"

// IntegrateShunts folds switched shunt banks (DBSH) and circuit shunt
// devices (DSHL) into the capacitor_reactor field of their host buses
// (DBAR), the way downstream power-flow tooling expects bus shunts to be
// presented. The input document is unchanged; a corrected copy is returned
// along with warnings for shunts referencing unknown buses or branches.
//
// Only connected equipment counts: bank contributions require bank state L,
// and DSHL contributions require both the hosting branch and the shunt end
// to be state L.
func IntegrateShunts(doc *Document) (*Document, []Diagnostic) {
	var diags []Diagnostic

	buses := doc.Records("DBAR")
	busIndex := make(map[int64]int, len(buses))
	for i, b := range buses {
		if num, ok := b.Get("number"); ok {
			busIndex[num.Int64()] = i
		}
	}
	// Corrections accumulate here; records stay immutable.
	updated := make(map[int]*Record)
	busAt := func(i int) *Record {
		if r, ok := updated[i]; ok {
			return r
		}
		return buses[i]
	}
	addShunt := func(i int, amount Fixed) {
		b := busAt(i)
		cur, _ := b.Get("capacitor_reactor")
		sum := cur.Fixed().Add(amount)
		updated[i] = b.With("capacitor_reactor", Fix(sum.Coef, sum.Scale))
	}

	for s, rec := range doc.Records("DBSH") {
		total := Fixed{Scale: 1}
		banks, _ := rec.Get("banks")
		for _, bank := range banks.List() {
			state, _ := bank.Get("state")
			if state.Str() != "L" {
				continue
			}
			units, _ := bank.Get("units_in_operation")
			power, _ := bank.Get("unit_reactive")
			total = total.Add(power.Fixed().MulInt(units.Int64()))
		}
		terminal, _ := rec.Get("terminal_bus")
		target := terminal.Int64()
		if target == 0 {
			from, _ := rec.Get("from_bus")
			target = from.Int64()
		}
		i, ok := busIndex[target]
		if !ok {
			diags = append(diags, Diagnostic{
				Severity:   SeverityWarning,
				RecordType: "DBSH",
				Message:    fmt.Sprintf("shunt bank %d references unknown bus %d", s+1, target),
			})
			continue
		}
		addShunt(i, total)
	}

	branches := doc.Records("DLIN")
	for s, rec := range doc.Records("DSHL") {
		from, _ := rec.Get("from_bus")
		to, _ := rec.Get("to_bus")
		branch := findBranch(branches, from.Int64(), to.Int64())
		if branch == nil {
			diags = append(diags, Diagnostic{
				Severity:   SeverityWarning,
				RecordType: "DSHL",
				Message:    fmt.Sprintf("shunt device %d references unknown branch %d-%d", s+1, from.Int64(), to.Int64()),
			})
			continue
		}
		if state, _ := branch.Get("state"); state.Str() != "L" {
			continue
		}
		for _, end := range []struct {
			bus      int64
			stateKey string
			shuntKey string
		}{
			{from.Int64(), "state_from", "shunt_from"},
			{to.Int64(), "state_to", "shunt_to"},
		} {
			if st, _ := rec.Get(end.stateKey); st.Str() != "L" {
				continue
			}
			i, ok := busIndex[end.bus]
			if !ok {
				diags = append(diags, Diagnostic{
					Severity:   SeverityWarning,
					RecordType: "DSHL",
					Message:    fmt.Sprintf("shunt device %d references unknown bus %d", s+1, end.bus),
				})
				continue
			}
			sh, _ := rec.Get(end.shuntKey)
			addShunt(i, sh.Fixed())
		}
	}

	if len(updated) == 0 {
		return doc, diags
	}
	out := NewDocument()
	for _, typ := range doc.Types() {
		for i, rec := range doc.Records(typ) {
			if typ == "DBAR" {
				if r, ok := updated[i]; ok {
					rec = r
				}
			}
			out.Append(rec)
		}
	}
	return out, diags
}

// findBranch locates a DLIN record joining the two buses in either
// direction.
func findBranch(branches []*Record, a, b int64) *Record {
	for _, br := range branches {
		from, _ := br.Get("from_bus")
		to, _ := br.Get("to_bus")
		if (from.Int64() == a && to.Int64() == b) || (from.Int64() == b && to.Int64() == a) {
			return br
		}
	}
	return nil
}
