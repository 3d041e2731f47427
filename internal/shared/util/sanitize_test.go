package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Grace Hopper", "Grace Hopper"},
		{`a/b\c`, "a_b_c"},
		{`say "hi"`, "say hi"},
		{"../../etc/passwd", "___etc_passwd"},
		{"line\nbreak", "line break"},
		{"   ", "fallback"},
		{"", "fallback"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in, "fallback"); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
