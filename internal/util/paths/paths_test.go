package paths

import "testing"

func TestIsSubDirectory(t *testing.T) {
	tests := []struct {
		child, parent string
		want          bool
	}{
		{"/src/app/out", "/src/app", true},
		{"/src/app/a/b", "/src/app", true},
		{"/src/app", "/src/app", false},
		{"/src/application", "/src/app", false},
		{"/src", "/src/app", false},
		{"/src/app/../other", "/src/app", false},
		{"", "/src/app", false},
	}
	for _, tt := range tests {
		if got := IsSubDirectory(tt.child, tt.parent); got != tt.want {
			t.Errorf("IsSubDirectory(%q, %q) = %v, want %v", tt.child, tt.parent, got, tt.want)
		}
	}
}

func TestRelativeInside(t *testing.T) {
	if rel, ok := RelativeInside("/src/app/out/site", "/src/app"); !ok || rel != "out/site" {
		t.Errorf("RelativeInside = %q, %v; want out/site, true", rel, ok)
	}
	if _, ok := RelativeInside("/src/app", "/src/app"); ok {
		t.Error("a directory is not inside itself")
	}
}

func TestSame(t *testing.T) {
	if !Same("/src/app/", "/src/app") {
		t.Error("trailing separator should not matter")
	}
	if !Same("/src/app/sub/..", "/src/app") {
		t.Error("cleaned paths should compare equal")
	}
	if Same("/src/app", "/src/app2") {
		t.Error("different directories compared equal")
	}
	if Same("", "") {
		t.Error("empty paths are never the same directory")
	}
}
