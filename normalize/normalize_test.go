package normalize

import "testing"

func TestHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "code", "code"},
		{"dash and spaces", "Alpha-2 code", "alpha_2_code"},
		{"parenthesized suffix", "English short name (using title case)", "english_short_name_using_title_case"},
		{"slash", "Region/State", "region_state"},
		{"footnote after name", "Subdivision name[note 1]", "subdivision_name"},
		{"several footnotes", "Code[a][b]", "code"},
		{"idempotent on cleaned", "alpha_2_code", "alpha_2_code"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Header(tt.input)
			if got != tt.want {
				t.Errorf("Header(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Header(got); again != tt.want {
				t.Errorf("Header(Header(%q)) = %q, want %q", tt.input, again, tt.want)
			}
		})
	}
}

func TestStripBrackets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single segment", "AD[1]", "AD"},
		{"multiple segments", "AD[1][note 2]", "AD"},
		{"segment in the middle", "name[a] (en)", "name (en)"},
		{"no brackets", "AD", "AD"},
		{"open without close", "AD[", "AD["},
		{"close without open", "AD]", "AD]"},
		{"close before open kept", "]AD[x]", "]AD[x]"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBrackets(tt.input); got != tt.want {
				t.Errorf("StripBrackets(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	extra := map[string]string{"Weird heading": "code"}

	tests := []struct {
		name  string
		input string
		extra map[string]string
		want  string
	}{
		{"unmapped passes through", "alpha_2_code", nil, "alpha_2_code"},
		{"extra mapping applies", "Weird heading", extra, "code"},
		{"extra miss passes through", "Other heading", extra, "Other heading"},
		{"empty input", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonical(tt.input, tt.extra)
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Canonical(got, tt.extra); again != got {
				t.Errorf("Canonical is not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}

func TestWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"non-breaking space", "Andorra la\u00A0Vella", "Andorra la Vella"},
		{"newlines and tabs", " AD \n\t 07 ", "AD 07"},
		{"run of spaces", "a   b", "a b"},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Whitespace(tt.input); got != tt.want {
				t.Errorf("Whitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
