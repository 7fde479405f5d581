package media

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver("https://cdn.example.com/assets/")

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"photos/gate/1.jpg", "https://cdn.example.com/assets/photos/gate/1.jpg"},
		{"/photos/gate/1.jpg", "https://cdn.example.com/assets/photos/gate/1.jpg"},
		{"https://other.example.com/x.jpg", "https://other.example.com/x.jpg"},
		{"http://other.example.com/x.jpg", "http://other.example.com/x.jpg"},
	}
	for _, tc := range cases {
		if got := r.Resolve(tc.in); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolvePtr(t *testing.T) {
	r := NewResolver("https://cdn.example.com")

	if r.ResolvePtr(nil) != nil {
		t.Error("nil path should stay nil")
	}
	path := "a.jpg"
	got := r.ResolvePtr(&path)
	if got == nil || *got != "https://cdn.example.com/a.jpg" {
		t.Errorf("ResolvePtr = %v", got)
	}
}
