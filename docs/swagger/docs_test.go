package swagger

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

func TestReadDoc_IsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	if !json.Valid([]byte(doc)) {
		t.Fatalf("rendered document is not valid JSON:\n%s", doc)
	}
	for _, code := range []string{`"400"`, `"404"`, `"405"`, `"415"`, `"500"`} {
		if !strings.Contains(doc, code) {
			t.Errorf("document lacks %s responses", code)
		}
	}
}
