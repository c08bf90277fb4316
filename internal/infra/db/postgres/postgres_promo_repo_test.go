//go:build !integration

package postgres

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestHashToInt64(t *testing.T) {
	a := hashToInt64("promo-1")
	b := hashToInt64("promo-1")
	c := hashToInt64("promo-2")
	if a != b {
		t.Error("hash is not deterministic")
	}
	if a == c {
		t.Error("distinct ids collided in the test fixture")
	}
}

func TestSetCodecRoundTrip(t *testing.T) {
	set := map[string]struct{}{
		"c@example.com": {},
		"a@example.com": {},
		"b@example.com": {},
	}

	sorted := setToSorted(set)
	want := []string{"a@example.com", "b@example.com", "c@example.com"}
	if !reflect.DeepEqual(sorted, want) {
		t.Errorf("sorted = %v, want %v", sorted, want)
	}

	back := sortedToSet(sorted)
	if !reflect.DeepEqual(back, set) {
		t.Errorf("round trip lost members: %v", back)
	}
}

func TestEmptyCollectionsMarshalAsArrays(t *testing.T) {
	for name, v := range map[string]interface{}{
		"unique codes": sliceOrEmpty(nil),
		"comments":     commentsOrEmpty(nil),
		"countries":    countriesOrEmpty(nil),
		"members":      setToSorted(nil),
	} {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if string(b) != "[]" {
			t.Errorf("%s marshals as %s, want []", name, b)
		}
	}
}
