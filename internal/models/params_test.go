package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParamsMarshalJSONKeepsInsertionOrder(t *testing.T) {
	var p Params
	p.SetStrings(ParamPublishers, []string{"Puffin"})
	p.SetStrings(ParamAuthors, []string{"J.R.R. Tolkien"})
	p.SetString(ParamOpenLibraryWorkID, "OL45804W")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"publishers":["Puffin"],"authors":["J.R.R. Tolkien"],"openlibraryWorkId":"OL45804W"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestParamsEmptyMarshalsAsObject(t *testing.T) {
	data, err := json.Marshal(Params{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected {}, got %s", data)
	}
}

func TestParamsSetReplacesExistingKey(t *testing.T) {
	var p Params
	p.SetString(ParamOpenLibraryWorkID, "OL1W")
	p.SetStrings(ParamSubjects, []string{"Fantasy"})
	p.SetString(ParamOpenLibraryWorkID, "OL2W")

	if p.Len() != 2 {
		t.Fatalf("Expected 2 params, got %d", p.Len())
	}
	if !reflect.DeepEqual(p.Keys(), []ParamKey{ParamOpenLibraryWorkID, ParamSubjects}) {
		t.Errorf("Unexpected key order: %v", p.Keys())
	}
	if v, _ := p.String(ParamOpenLibraryWorkID); v != "OL2W" {
		t.Errorf("Expected OL2W, got %q", v)
	}
	if _, ok := p.Strings(ParamOpenLibraryWorkID); ok {
		t.Error("Expected a string param not to read back as a list")
	}
}

func TestParamsSetStringsCopies(t *testing.T) {
	authors := []string{"Tolkien"}
	var p Params
	p.SetStrings(ParamAuthors, authors)
	authors[0] = "changed"

	got, _ := p.Strings(ParamAuthors)
	if got[0] != "Tolkien" {
		t.Errorf("Expected params to own a copy, got %v", got)
	}
}

func TestParamsUnmarshalJSON(t *testing.T) {
	var p Params
	err := json.Unmarshal([]byte(`{"openlibraryWorkId":"OL45804W","authors":["Tolkien"],"ignored":1}`), &p)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(p.Keys(), []ParamKey{ParamAuthors, ParamOpenLibraryWorkID}) {
		t.Errorf("Expected canonical order, got %v", p.Keys())
	}

	if err := json.Unmarshal([]byte(`{"authors": 3}`), &p); err == nil {
		t.Error("Expected error for a numeric param")
	}
}

func TestParamsMarshalYAML(t *testing.T) {
	var p Params
	p.SetStrings(ParamSubjects, []string{"Fantasy", "Dragons"})
	p.SetString(ParamOpenLibraryEditionID, "OL7353617M")

	data, err := yaml.Marshal(Book{ID: "isbn13:9780140328721", Name: "The Hobbit", Kind: KindBook, Params: p})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := string(data)
	subjects := strings.Index(out, "subjects:")
	edition := strings.Index(out, "openlibraryEditionId: OL7353617M")
	if subjects < 0 || edition < 0 || subjects > edition {
		t.Errorf("Expected ordered params in YAML, got:\n%s", out)
	}
}

func TestRelationsEmpty(t *testing.T) {
	if !(Relations{}).Empty() {
		t.Error("Expected zero relations to be empty")
	}
	if (Relations{TagsDetails: []Tag{{ID: "openlib-tag:fantasy"}}}).Empty() {
		t.Error("Expected relations with a tag not to be empty")
	}
}
