package domain

import (
	"encoding/json"
	"testing"
)

func TestValueUnmarshalScalars(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Value
		wantErr bool
	}{
		{name: "integer", input: `46`, want: NewInt(46)},
		{name: "boolean true", input: `true`, want: NewBool(true)},
		{name: "boolean false", input: `false`, want: NewBool(false)},
		{name: "string", input: `"high sugar"`, want: NewString("high sugar")},
		{name: "numeric string stays string", input: `"46"`, want: NewString("46")},
		{name: "float rejected", input: `46.5`, wantErr: true},
		{name: "object rejected", input: `{"a":1}`, wantErr: true},
		{name: "array rejected", input: `[1]`, wantErr: true},
		{name: "null rejected", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s, got %+v", tt.input, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, v)
			}
		})
	}
}

func TestValueMarshalRoundTrip(t *testing.T) {
	values := []Value{NewInt(30), NewBool(true), NewString("rarely")}
	expected := []string{`30`, `true`, `"rarely"`}

	for i, v := range values {
		out, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %v: %v", v, err)
		}
		if string(out) != expected[i] {
			t.Fatalf("expected %s, got %s", expected[i], out)
		}
	}
}

func TestValueString(t *testing.T) {
	if NewInt(7).String() != "7" {
		t.Fatalf("int string form")
	}
	if NewBool(true).String() != "true" {
		t.Fatalf("bool string form")
	}
	if NewString("daily").String() != "daily" {
		t.Fatalf("string form")
	}
}

func TestProfileResultMarshalVariants(t *testing.T) {
	ok := ProfileResult{
		Answers:       CanonicalAnswers{FieldAge: NewInt(30)},
		MissingFields: []string{},
		Confidence:    1.0,
	}
	out, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal ok result: %v", err)
	}
	var okMap map[string]json.RawMessage
	if err := json.Unmarshal(out, &okMap); err != nil {
		t.Fatalf("decode ok result: %v", err)
	}
	for _, key := range []string{"answers", "missing_fields", "confidence"} {
		if _, present := okMap[key]; !present {
			t.Fatalf("expected key %q in %s", key, out)
		}
	}
	if _, present := okMap["status"]; present {
		t.Fatalf("ok variant must not carry status: %s", out)
	}

	incomplete := ProfileResult{
		Status: StatusIncompleteProfile,
		Reason: ">50% required fields missing: age, smoker, diet",
	}
	out, err = json.Marshal(incomplete)
	if err != nil {
		t.Fatalf("marshal incomplete result: %v", err)
	}
	var incMap map[string]json.RawMessage
	if err := json.Unmarshal(out, &incMap); err != nil {
		t.Fatalf("decode incomplete result: %v", err)
	}
	if _, present := incMap["answers"]; present {
		t.Fatalf("incomplete variant must not carry answers: %s", out)
	}
	if string(incMap["status"]) != `"incomplete_profile"` {
		t.Fatalf("expected incomplete_profile status, got %s", incMap["status"])
	}
}

func TestFactorKey(t *testing.T) {
	if FactorPoorDiet.Key() != "poor_diet" {
		t.Fatalf("expected poor_diet, got %s", FactorPoorDiet.Key())
	}
	if FactorSmoking.Key() != "smoking" {
		t.Fatalf("expected smoking, got %s", FactorSmoking.Key())
	}
	if len(AllFactors) != 7 {
		t.Fatalf("expected 7 factors, got %d", len(AllFactors))
	}
}
