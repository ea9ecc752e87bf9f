package grading_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/examgrid/examgrid-server/internal/grading"
)

func TestResponseUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want grading.Response
	}{
		{name: "string", in: `"opt-1"`, want: grading.SingleResponse("opt-1")},
		{name: "number keeps literal text", in: `42`, want: grading.SingleResponse("42")},
		{name: "array", in: `["a","b"]`, want: grading.MultiResponse("a", "b")},
		{name: "array of numbers", in: `[1,2]`, want: grading.MultiResponse("1", "2")},
		{name: "empty array", in: `[]`, want: grading.Response{Multi: []string{}, Many: true}},
		{name: "null", in: `null`, want: grading.Response{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got grading.Response
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestResponseUnmarshalRejectsObjects(t *testing.T) {
	var r grading.Response
	if err := json.Unmarshal([]byte(`{"nested":"object"}`), &r); err == nil {
		t.Fatal("expected error for object payload")
	}
}

func TestResponseValues(t *testing.T) {
	if got := grading.SingleResponse("x").Values(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("single Values = %v", got)
	}
	if got := grading.MultiResponse("a", "b").Values(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("multi Values = %v", got)
	}
}
