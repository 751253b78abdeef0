package tile

import "testing"

func TestAttributesPutVsPutNew(t *testing.T) {
	a := NewAttributes()
	a.Put("road", StringValue("main")) // no-op, key doesn't exist yet
	if a.Has("road") {
		t.Fatalf("Put should not create a new key")
	}
	a.PutNew("road", StringValue("main"))
	if !a.Has("road") {
		t.Fatalf("PutNew should create the key")
	}
	a.Put("road", StringValue("service"))
	v, _ := a.Get("road")
	if v.S != "service" {
		t.Fatalf("Put should replace an existing value, got %q", v.S)
	}
}

func TestAttributesSetNullIsDeletionProtocol(t *testing.T) {
	a := NewAttributes()
	a.PutNew("ref", StringValue("A1"))
	a.SetNull("ref")
	v, ok := a.Get("ref")
	if !ok || v.Type != AttrNull {
		t.Fatalf("SetNull should leave the key present with a Null value, got %+v ok=%v", v, ok)
	}
}

func TestLayerCullEmptyDropsGeometrylessFeatures(t *testing.T) {
	l := NewLayer("roads")
	kept := NewFeature(1)
	kept.AddGeometry(NewLineString([]Vertex{{0, 0}, {1, 0}}))
	dropped := NewFeature(2)
	l.Features = []*Feature{kept, dropped}
	l.CullEmpty()
	if len(l.Features) != 1 || l.Features[0].ID != 1 {
		t.Fatalf("expected only feature 1 to survive, got %v", l.Features)
	}
}

func TestGeometryIterateEmitsMoveToThenLineToThenEnd(t *testing.T) {
	g := NewLineString([]Vertex{{0, 0}, {1, 0}, {2, 0}})
	var cmds []Command
	g.Iterate(func(cmd Command, x, y float64) {
		cmds = append(cmds, cmd)
	})
	want := []Command{MoveTo, LineTo, LineTo, End}
	if len(cmds) != len(want) {
		t.Fatalf("got %v, want %v", cmds, want)
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Fatalf("got %v, want %v", cmds, want)
		}
	}
}

func TestAttributesInternStringsRewritesKeysAndStringValues(t *testing.T) {
	a := NewAttributes()
	a.PutNew("iso_a2", StringValue("US"))
	a.PutNew("pop", IntValue(42))

	seen := map[string]int{}
	intern := func(s string) (string, error) {
		seen[s]++
		return s + "!", nil
	}
	if err := a.InternStrings(intern); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Has("iso_a2!") {
		t.Fatalf("expected key to be rewritten through intern, got %v", a.Entries())
	}
	v, ok := a.Get("iso_a2!")
	if !ok || v.S != "US!" {
		t.Fatalf("expected interned string value US!, got %+v ok=%v", v, ok)
	}
	pv, ok := a.Get("pop!")
	if !ok || pv.I != 42 {
		t.Fatalf("expected non-string value to keep its payload across key rewrite, got %+v ok=%v", pv, ok)
	}
	if seen["iso_a2"] != 1 || seen["US"] != 1 || seen["pop"] != 1 {
		t.Fatalf("expected each key and each string value to be interned exactly once, got %v", seen)
	}
}

func TestBoundIntersects(t *testing.T) {
	a := EmptyBound().Extend(0, 0).Extend(1, 1)
	b := EmptyBound().Extend(0.5, 0.5).Extend(2, 2)
	c := EmptyBound().Extend(5, 5).Extend(6, 6)
	if !a.Intersects(b) {
		t.Fatalf("expected a to intersect b")
	}
	if a.Intersects(c) {
		t.Fatalf("expected a not to intersect c")
	}
}
