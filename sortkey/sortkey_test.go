package sortkey

import (
	"testing"

	"github.com/tonycite/citeproc/value"
)

func date(y, m, d int) value.DateOrRange {
	return value.DateOrRange{Start: value.Date{Year: y, Month: m, Day: d}}
}

func TestComparePlainText(t *testing.T) {
	if Compare(TextSegment("a"), TextSegment("z")) >= 0 {
		t.Fatal("expected a < z")
	}
	if Compare(TextSegment("AAA"), TextSegment("Aaa")) >= 0 {
		t.Fatal("expected AAA < Aaa (caps-first tiebreak)")
	}
}

func TestCompareDatesBySpecificity(t *testing.T) {
	year := DateSegment(date(2000, 0, 0))
	yearMonth := DateSegment(date(2000, 4, 0))
	full := DateSegment(date(2000, 4, 1))

	if Compare(year, yearMonth) >= 0 {
		t.Fatal("expected 2000 < 2000-04")
	}
	if Compare(yearMonth, full) >= 0 {
		t.Fatal("expected 2000-04 < 2000-04-01")
	}
}

func TestCompareBCYears(t *testing.T) {
	bc100 := DateSegment(date(-100, 0, 0))
	bc44 := DateSegment(date(-44, 0, 0))
	ad50 := DateSegment(date(50, 0, 0))

	if Compare(bc100, bc44) >= 0 {
		t.Fatal("expected 100BC < 44BC")
	}
	if Compare(bc44, ad50) >= 0 {
		t.Fatal("expected 44BC < 50AD")
	}
}

func TestCompareRangeAfterSingleDate(t *testing.T) {
	single := DateSegment(date(2009, 4, 7))
	rangeVal := DateSegment(value.DateOrRange{
		Start: value.Date{Year: 2009, Month: 4, Day: 7},
		End:   &value.Date{Year: 2010, Month: 5, Day: 9},
	})
	if Compare(single, rangeVal) >= 0 {
		t.Fatal("expected 2009-04-07 < 2009-04-07/2010-05-09")
	}
}

func TestCompareNumbers(t *testing.T) {
	if Compare(NumberSegment(1000), NumberSegment(1000)) != 0 {
		t.Fatal("expected equal")
	}
	if Compare(NumberSegment(1000), NumberSegment(2000)) >= 0 {
		t.Fatal("expected 1000 < 2000")
	}
}

func TestBuilderMixedFields(t *testing.T) {
	a := new(Builder).Text("Darwin").Date(date(1859, 11, 24)).String()
	b := new(Builder).Text("Darwin").Date(date(1871, 2, 24)).String()
	if Compare(a, b) >= 0 {
		t.Fatal("expected 1859 entry to sort before 1871 entry")
	}
}

func TestTextSegmentEscapesReservedRunes(t *testing.T) {
	dirty := "a" + string(NumStart) + "b"
	escaped := TextSegment(dirty)
	if escaped == dirty {
		t.Fatal("expected reserved rune to be escaped")
	}
}
