package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	t.Parallel()

	const key = "chapter-1-atoms::basics::nucleus"

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"checklist"},
			want: []string{"checklist"},
		},
		{
			name: "direct key first token",
			in:   []string{"checklist", key},
			want: []string{"checklist", "items", "show", key},
		},
		{
			name: "direct key after value flag",
			in:   []string{"checklist", "--content", "./nm_data.json", key},
			want: []string{"checklist", "--content", "./nm_data.json", "items", "show", key},
		},
		{
			name: "direct key after equals flag",
			in:   []string{"checklist", "--backend=sqlite", key},
			want: []string{"checklist", "--backend=sqlite", "items", "show", key},
		},
		{
			name: "direct key after bool flag",
			in:   []string{"checklist", "--pretty", key},
			want: []string{"checklist", "--pretty", "items", "show", key},
		},
		{
			name: "direct key after double dash",
			in:   []string{"checklist", "--format", "text", "--", key},
			want: []string{"checklist", "--format", "text", "--", "items", "show", key},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"checklist", "check", key},
			want: []string{"checklist", "check", key},
		},
		{
			name: "value flag argument is not a key",
			in:   []string{"checklist", "--namespace", "a::b::c"},
			want: []string{"checklist", "--namespace", "a::b::c"},
		},
		{
			name: "partial key not rewritten",
			in:   []string{"checklist", "chapter::section"},
			want: []string{"checklist", "chapter::section"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"checklist", "wat"},
			want: []string{"checklist", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectItemLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectItemLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
