package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"short", []string{"--short"}, []string{version + "\n"}},
		{"full", nil, []string{"Version:", commit, "Stores:     memory, sqlite, redis, s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := versionCmd()
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q does not contain %q", out.String(), want)
				}
			}
		})
	}
}

func TestRootCmd_VersionWithNoColor(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--no-color", "version", "--short"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != version {
		t.Errorf("output = %q, want %q", got, version)
	}
}
