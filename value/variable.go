// Package value holds the small, immutable value types a reference is
// built from: ordinary strings, numeric values, date-or-ranges, and
// person names, plus the variable-category tables that tell the
// reference context (see package refctx) which sub-map a given variable
// name lives in. The category tables are ported from citeproc-rs's
// style/variables.rs, which partitions CSL variable names into the same
// four groups at compile time.
package value

// Category is the sub-map a reference variable belongs to.
type Category int

const (
	// CategoryUnknown marks a name not present in any table: neither a
	// real reference variable nor one of the three virtual variables.
	CategoryUnknown Category = iota
	CategoryOrdinary
	CategoryNumber
	CategoryName
	CategoryDate
	// CategoryVirtual marks a name answered from cite/position/layout
	// context rather than the reference map: locator,
	// first-reference-note-number, citation-number.
	CategoryVirtual
)

// ordinaryVariables are text variables, including the "short" forms
// consulted as a fallback by GetOrdinary when the long form is empty.
var ordinaryVariables = map[string]bool{
	"title": true, "title-short": true,
	"container-title": true, "container-title-short": true,
	"collection-title": true, "archive": true, "archive-place": true,
	"archive_location": true, "abstract": true, "annote": true,
	"call-number": true, "dimensions": true, "genre": true, "keyword": true,
	"medium": true, "note": true, "original-publisher": true,
	"original-publisher-place": true, "original-title": true,
	"publisher": true, "publisher-place": true, "references": true,
	"reviewed-title": true, "scale": true, "section": true, "source": true,
	"status": true, "version": true, "URL": true, "DOI": true, "ISBN": true,
	"ISSN": true, "PMID": true, "PMCID": true, "language": true,
	"jurisdiction": true, "authority": true, "event": true,
}

// shortFormOf maps a long ordinary variable to the short form consulted
// when the "short" rendering form is requested and the long form would
// otherwise be used; see refctx.GetOrdinary.
var shortFormOf = map[string]string{
	"title":           "title-short",
	"container-title": "container-title-short",
}

var numberVariables = map[string]bool{
	"chapter-number": true, "collection-number": true, "edition": true,
	"issue": true, "number": true, "number-of-pages": true,
	"number-of-volumes": true, "volume": true, "citation-number": true,
	"first-reference-note-number": true, "locator": true,
	"page": true, "page-first": true,
}

var nameVariables = map[string]bool{
	"author": true, "collection-editor": true, "composer": true,
	"container-author": true, "director": true, "editor": true,
	"editorial-director": true, "illustrator": true, "interviewer": true,
	"original-author": true, "recipient": true, "reviewed-author": true,
	"translator": true,
}

var dateVariables = map[string]bool{
	"accessed": true, "container": true, "event-date": true,
	"issued": true, "original-date": true, "submitted": true,
}

// virtualVariables are answered from cite/position/layout context, never
// from a reference's own sub-maps. See spec §4.1.
var virtualVariables = map[string]bool{
	"locator":                     true,
	"first-reference-note-number": true,
	"citation-number":             true,
}

// CategoryOf reports which sub-map (or virtual source) a variable name
// belongs to. Virtual variables take precedence over any same-named
// reference field, matching the contract in spec §4.1.
func CategoryOf(name string) Category {
	if virtualVariables[name] {
		return CategoryVirtual
	}
	if ordinaryVariables[name] {
		return CategoryOrdinary
	}
	if numberVariables[name] {
		return CategoryNumber
	}
	if nameVariables[name] {
		return CategoryName
	}
	if dateVariables[name] {
		return CategoryDate
	}
	return CategoryUnknown
}

// ShortForm reports the short-form variable name to fall back to for a
// "short" rendering form request, and whether one exists.
func ShortForm(name string) (string, bool) {
	s, ok := shortFormOf[name]
	return s, ok
}
