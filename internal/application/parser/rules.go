package parser

// Vocabulary tables driving the ingredient heuristics. Kept as data so the
// vocabulary can be extended and tested independently of control flow.

// toTasteMarkers flag a line whose ingredient carries no quantity
var toTasteMarkers = []string{
	"to taste",
	"as needed",
}

// adjectiveVocabulary lists preparation words stripped from candidate
// ingredient names
var adjectiveVocabulary = map[string]struct{}{
	"chopped":  {},
	"diced":    {},
	"minced":   {},
	"sliced":   {},
	"grated":   {},
	"shredded": {},
	"crushed":  {},
	"peeled":   {},
	"fresh":    {},
	"frozen":   {},
	"cooked":   {},
	"ground":   {},
	"melted":   {},
	"softened": {},
	"beaten":   {},
	"drained":  {},
	"rinsed":   {},
	"packed":   {},
	"divided":  {},
	"finely":   {},
	"coarsely": {},
	"thinly":   {},
	"boneless": {},
	"skinless": {},
	"optional": {},
}
