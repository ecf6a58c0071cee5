package core

import "testing"

func Test_CleanString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"padded", "  Innexgo High \n", "Innexgo High"},
		{"inner whitespace kept", "Innexgo  High", "Innexgo  High"},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.in); got != tt.want {
				t.Errorf("CleanString() = %q, want %q", got, tt.want)
			}
		})
	}
}
