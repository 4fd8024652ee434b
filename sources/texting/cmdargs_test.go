package texting

import (
	"reflect"
	"testing"
)

func TestParseCmdArgs(t *testing.T) {
	tests := []struct {
		name string
		args string
		want []string
	}{
		{"plain words", "grant mairwunnx moderate", []string{"grant", "mairwunnx", "moderate"}},
		{"collapses spaces", "grant   mairwunnx    moderate", []string{"grant", "mairwunnx", "moderate"}},
		{"quoted phrase", "revoke 'some user' moderate", []string{"revoke", "some user", "moderate"}},
		{"escaped quote", `grant it\'s moderate`, []string{"grant", "it's", "moderate"}},
		{"empty", "", nil},
		{"only spaces", "    ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCmdArgs(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCmdArgs(%q) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
