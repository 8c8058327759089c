package postgres

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"Венеція": "Венеція",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`c:\dir`:  `c:\\dir`,
		`%_\`:     `\%\_\\`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
