package errhttp

import "net/http"

type statusEntry struct {
	status int
	label  string
}

// statusTable is never written after package init, so concurrent reads need no lock.
var statusTable = map[Kind]statusEntry{
	KindMalformedRequest:     {http.StatusBadRequest, "Bad Request"},
	KindValidationFailure:    {http.StatusBadRequest, "Bad Request"},
	KindNotFound:             {http.StatusNotFound, "Not Found"},
	KindMethodNotAllowed:     {http.StatusMethodNotAllowed, "Method not Allowed"},
	KindUnsupportedMediaType: {http.StatusUnsupportedMediaType, "Unsupported media type"},
	KindInternal:             {http.StatusInternalServerError, "Internal Server Error"},
}

// Classify returns the HTTP status and error label for c. Kinds missing from
// the table, and a nil condition, classify as KindInternal.
func Classify(c *Condition) (int, string) {
	kind := KindInternal
	if c != nil {
		kind = c.Kind
	}
	e, ok := statusTable[kind]
	if !ok {
		e = statusTable[KindInternal]
	}
	return e.status, e.label
}
