package injection_guard

// InjectionGuardData is attached to the response metadata for diagnostics.
type InjectionGuardData struct {
	Clean         bool     `json:"clean"`
	OffendingPath []string `json:"offending_path,omitempty"`
}

// operatorKeys is the denylist of document-query operator names. A payload
// key consisting of the sentinel '$' followed by one of these names is
// rejected wherever it appears in the tree. Values are never inspected: an
// operator spelled inside a string value is inert for the downstream
// document-query layer.
var operatorKeys = map[string]struct{}{
	"where":       {},
	"regex":       {},
	"options":     {},
	"ne":          {},
	"eq":          {},
	"gt":          {},
	"gte":         {},
	"lt":          {},
	"lte":         {},
	"in":          {},
	"nin":         {},
	"or":          {},
	"and":         {},
	"not":         {},
	"nor":         {},
	"exists":      {},
	"type":        {},
	"expr":        {},
	"mod":         {},
	"text":        {},
	"search":      {},
	"elemMatch":   {},
	"all":         {},
	"size":        {},
	"slice":       {},
	"function":    {},
	"accumulator": {},
	"comment":     {},
	"set":         {},
	"unset":       {},
	"inc":         {},
	"mul":         {},
	"push":        {},
	"pull":        {},
	"pop":         {},
	"rename":      {},
	"jsonSchema":  {},
}
