package shape

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStructType_MarshalJSON_Cyclic(t *testing.T) {
	m := NewMaterializer(v1)
	node := m.Open(NewKey("Shop.Node", v1), NewSignature("Shop.Node", v1, nil, nil, []Field{
		{Name: "ID", Type: TypeFor[int](), Required: true, Annotations: Annotations{{Key: "json", Value: "id"}}},
	}))
	m.AddField(node, Field{Name: "Children", Type: Collection(node)})
	m.Seal(node)

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got struct {
		Kind   string `json:"kind"`
		Name   string `json:"name"`
		Sealed bool   `json:"sealed"`
		Fields []struct {
			Name string         `json:"name"`
			Type map[string]any `json:"type"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Kind != "struct" || got.Name != "Shop.Node" || !got.Sealed || len(got.Fields) != 2 {
		t.Fatalf("Marshal() = %s", data)
	}
	if k := got.Fields[0].Type["kind"]; k != "go" {
		t.Errorf("ID type kind = %v, want go", k)
	}
	elem, _ := got.Fields[1].Type["elem"].(map[string]any)
	if got.Fields[1].Type["kind"] != "collection" || elem["kind"] != "ref" || elem["name"] != "Shop.Node" {
		t.Errorf("Children type = %v, want collection of ref", got.Fields[1].Type)
	}
	if !strings.Contains(string(data), `"annotations":[{"key":"json","value":"id"}]`) {
		t.Errorf("Marshal() = %s, want field annotations", data)
	}
}
