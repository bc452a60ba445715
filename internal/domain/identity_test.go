package domain

import "testing"

func TestFragmentID_Deterministic(t *testing.T) {
	a := FragmentID("the map is not the territory")
	b := FragmentID("the map is not the territory")
	if a != b {
		t.Fatalf("same text produced different ids: %s vs %s", a, b)
	}

	c := FragmentID("the map is not the territory ")
	if a == c {
		t.Fatal("different text produced the same id")
	}
}

func TestFragmentID_KnownValue(t *testing.T) {
	// uuid5(NAMESPACE_OID, "hello") is fixed across languages and runs.
	got := FragmentID("hello").String()
	want := "4d71d03f-f19b-5d9e-8523-9628ba18063c"
	if got != want {
		t.Fatalf("FragmentID(hello) = %s, want %s", got, want)
	}
}

func TestIdeaID_DerivedFromSeedFragment(t *testing.T) {
	frag := FragmentID("seed text")
	a := IdeaID(frag)
	b := IdeaID(frag)
	if a != b {
		t.Fatalf("same seed produced different idea ids: %s vs %s", a, b)
	}
	if a == frag {
		t.Fatal("idea id must differ from fragment id")
	}
}
