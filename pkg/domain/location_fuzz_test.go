package domain

import "testing"

// FuzzParseLocation checks that parsing never panics and only ever yields
// one of the closed set of locations.
func FuzzParseLocation(f *testing.F) {
	f.Add("")
	f.Add("lab")
	f.Add("exp_room")
	f.Add("LAB")
	f.Add("研究室")
	f.Add(string([]byte{0x00, 0xff}))

	f.Fuzz(func(t *testing.T, input string) {
		loc, err := ParseLocation(input)
		if err == nil && !loc.IsValid() {
			t.Errorf("ParseLocation(%q) returned invalid location %q", input, loc)
		}
		if err != nil && loc != "" {
			t.Errorf("ParseLocation(%q) returned both a value and an error", input)
		}
	})
}
