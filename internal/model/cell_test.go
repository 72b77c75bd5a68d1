package model

import "testing"

func TestParseCellErrorCode(t *testing.T) {
	t.Parallel()

	tests := map[string]CellErrorCode{
		"#DIV/0!":       CellErrorDiv0,
		"#n/a":          CellErrorNA,
		" #REF! ":       CellErrorRef,
		"#VALUE!":       CellErrorValue,
		"#GETTING_DATA": CellErrorGettingData,
		"#SPILL!":       CellErrorUnknown,
		"":              CellErrorUnknown,
	}
	for text, want := range tests {
		if got := ParseCellErrorCode(text); got != want {
			t.Fatalf("ParseCellErrorCode(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestCellKinds(t *testing.T) {
	t.Parallel()

	cells := map[CellKind]Cell{
		CellKindEmpty:       EmptyCell{},
		CellKindString:      StringCell("a"),
		CellKindInt:         IntCell(1),
		CellKindFloat:       FloatCell(1.5),
		CellKindBool:        BoolCell(true),
		CellKindDateTime:    DateTimeCell{},
		CellKindDateTimeISO: DateTimeISOCell("2024-01-01"),
		CellKindDurationISO: DurationISOCell("PT1H"),
		CellKindError:       ErrorCell{Code: CellErrorNA},
	}
	for kind, cell := range cells {
		if cell.Kind() != kind {
			t.Fatalf("%T.Kind() = %q, want %q", cell, cell.Kind(), kind)
		}
	}
}

func TestRowRecord_Clone(t *testing.T) {
	t.Parallel()

	r := RowRecord{"id": "A1"}
	c := r.Clone()
	c["id"] = "B2"
	if r["id"] != "A1" {
		t.Fatalf("clone must not alias the original")
	}
}
