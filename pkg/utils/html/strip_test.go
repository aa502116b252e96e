package html

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  DB   Leak\n2023 ", "DB Leak 2023"},
		{"tags", "<b>DB</b> <i>Leak</i>", "DB Leak"},
		{"entities", "Tom &amp; Jerry &lt;3", "Tom & Jerry <3"},
		{"script dropped", "<script>var x = 1;</script>Title", "Title"},
		{"style dropped", "<style>.a{}</style><p>Body</p>", "Body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
