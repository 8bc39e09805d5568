package dom

import "testing"

func TestSetParentReparents(t *testing.T) {
	model := NewInstance("Model")
	part := NewInstance("Part")

	if !part.SetParent(model) {
		t.Fatal("SetParent(model) = false, want true")
	}
	if part.Parent() != model {
		t.Fatalf("Parent() = %v, want model", part.Parent())
	}
	if children := model.Children(); len(children) != 1 || children[0] != part {
		t.Fatalf("model.Children() = %v, want [part]", children)
	}

	other := NewInstance("Model")
	if !part.SetParent(other) {
		t.Fatal("SetParent(other) = false, want true")
	}
	if children := model.Children(); len(children) != 0 {
		t.Fatalf("old parent still lists child: %v", children)
	}
	if children := other.Children(); len(children) != 1 || children[0] != part {
		t.Fatalf("other.Children() = %v, want [part]", children)
	}
}

func TestSetParentRejectsCycle(t *testing.T) {
	a := NewInstance("A")
	b := NewInstance("B")
	b.SetParent(a)

	if a.SetParent(b) {
		t.Fatal("SetParent created a cycle but reported success")
	}
	if a.SetParent(a) {
		t.Fatal("SetParent(self) reported success")
	}
}

func TestSetParentNilDetaches(t *testing.T) {
	model := NewInstance("Model")
	part := NewInstance("Part")
	part.SetParent(model)

	if !part.SetParent(nil) {
		t.Fatal("SetParent(nil) = false, want true")
	}
	if part.Parent() != nil {
		t.Fatalf("Parent() = %v, want nil", part.Parent())
	}
	if len(model.Children()) != 0 {
		t.Fatalf("model still lists detached child: %v", model.Children())
	}
}

func TestGetSetProperty(t *testing.T) {
	inst := NewInstance("Part")
	if inst.Get("Name") != nil {
		t.Fatalf("Get on unset property = %v, want nil", inst.Get("Name"))
	}
	inst.Set("Name", ValueString("Foo"))
	if got, ok := inst.Get("Name").(ValueString); !ok || got != "Foo" {
		t.Fatalf("Get(Name) = %#v, want ValueString(Foo)", inst.Get("Name"))
	}
	inst.Set("Name", nil)
	if inst.Get("Name") != nil {
		t.Fatalf("Get after nil-set = %v, want nil", inst.Get("Name"))
	}
}

func TestAllInstancesPreOrder(t *testing.T) {
	root := NewInstance("Model")
	child1 := NewInstance("Part")
	child2 := NewInstance("Part")
	grandchild := NewInstance("Decal")
	child1.SetParent(root)
	child2.SetParent(root)
	grandchild.SetParent(child1)

	doc := &Document{Roots: []*Instance{root}}
	all := doc.AllInstances()
	want := []*Instance{root, child1, grandchild, child2}
	if len(all) != len(want) {
		t.Fatalf("AllInstances() length = %d, want %d", len(all), len(want))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("index %d: got %p, want %p", i, all[i], want[i])
		}
	}
}
