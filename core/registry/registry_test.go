package registry

import "testing"

type widget struct {
	Size int `json:"size"`
}

func TestRegisterAndCreate(t *testing.T) {
	r := New[*widget]()
	err := r.Register("widget", func(conf map[string]any) (*widget, error) {
		var w widget
		if err := Decode(conf, &w); err != nil {
			return nil, err
		}
		return &w, nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	w, err := r.Create(ModuleConfig{Type: "widget", Conf: map[string]any{"size": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.Size != 3 {
		t.Fatalf("size = %d", w.Size)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New[int]()
	f := func(map[string]any) (int, error) { return 0, nil }
	if err := r.Register("a", f); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("a", f); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := r.Register("b", nil); err == nil {
		t.Fatalf("expected error for nil factory")
	}
}

func TestCreateUnknown(t *testing.T) {
	r := New[int]()
	if _, err := r.Create(ModuleConfig{Type: "missing"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
