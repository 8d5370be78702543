package aidl

import (
	"strconv"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

// User ids are offsets from FIRST_CALL_TRANSACTION (1); the last legal id
// maps onto LAST_CALL_TRANSACTION (16777215).
const (
	MinUserSetMethodID = 0
	MaxUserSetMethodID = 16777214
)

type idAssignment int

const (
	idsUnassigned idAssignment = iota
	idsAllManual
	idsAllAutomatic
	idsInvalid
)

// next returns the state after observing a method with or without a user id.
func (s idAssignment) next(manual bool) idAssignment {
	switch s {
	case idsUnassigned:
		if manual {
			return idsAllManual
		}
		return idsAllAutomatic
	case idsAllManual:
		if manual {
			return idsAllManual
		}
		return idsInvalid
	case idsAllAutomatic:
		if manual {
			return idsInvalid
		}
		return idsAllAutomatic
	}
	return idsInvalid
}

// AssignMethodIDs gives every method of iface a transaction id. Either every
// method carries a user id, which is range and duplicate checked, or none
// does and ids are numbered from 0 in declaration order. The first violation
// stops the scan and leaves every method untouched.
func AssignMethodIDs(filename string, iface *ast.Interface) error {
	var diags diagnostics.List
	used := makeSet[int]()
	ids := make([]int, 0, len(iface.Methods))
	state := idsUnassigned

	for _, m := range iface.Methods {
		state = state.next(m.HasUserID())
		if state == idsInvalid {
			diags.Addf(diagnostics.MixedMethodIDAssignment, filename, m.Position.Line,
				"You must either assign id's to all methods or to none of them.")
			return diags.Err()
		}
		if !m.HasUserID() {
			ids = append(ids, len(ids))
			continue
		}

		line := m.ID.Position.Line
		id, err := strconv.Atoi(m.ID.Value)
		if err != nil || id < MinUserSetMethodID || id > MaxUserSetMethodID {
			d := diagnostics.Newf(diagnostics.DuplicateOrOutOfRangeMethodID, filename, line,
				"Found out of bounds id (%s) for method: %s", m.ID.Value, m.Name)
			diags.Add(d.WithNote("", 0, "Value for id must be between %d and %d inclusive.", MinUserSetMethodID, MaxUserSetMethodID))
			return diags.Err()
		}
		if used.has(id) {
			diags.Addf(diagnostics.DuplicateOrOutOfRangeMethodID, filename, line,
				"Found duplicate method id (%d) for method: %s", id, m.Name)
			return diags.Err()
		}
		used.add(id)
		ids = append(ids, id)
	}

	for i, m := range iface.Methods {
		m.AssignedID = ids[i]
	}
	return nil
}
