package value

import "testing"

func mkDate(y, m, d int) DateOrRange {
	return DateOrRange{Start: Date{Year: y, Month: m, Day: d}}
}

func TestDateComparePrecision(t *testing.T) {
	y2000 := mkDate(2000, 0, 0)
	apr2000 := mkDate(2000, 4, 0)
	apr1_2000 := mkDate(2000, 4, 1)

	if y2000.Compare(apr2000) >= 0 {
		t.Fatalf("expected 2000 < 2000-04")
	}
	if apr2000.Compare(apr1_2000) >= 0 {
		t.Fatalf("expected 2000-04 < 2000-04-01")
	}
}

func TestDateCompareBC(t *testing.T) {
	bc100 := mkDate(-100, 0, 0)
	bc44 := mkDate(-44, 0, 0)
	ad50 := mkDate(50, 0, 0)
	ad100 := mkDate(100, 0, 0)

	if !(bc100.Compare(bc44) < 0 && bc44.Compare(ad50) < 0 && ad50.Compare(ad100) < 0) {
		t.Fatalf("expected -100 < -44 < 50 < 100")
	}
}

func TestDateCompareRange(t *testing.T) {
	single := mkDate(2009, 4, 7)
	rng := DateOrRange{Start: Date{Year: 2009, Month: 4, Day: 7}, End: &Date{Year: 2010, Month: 5, Day: 9}}
	if single.Compare(rng) >= 0 {
		t.Fatalf("expected single date < range sharing the same start")
	}
}
