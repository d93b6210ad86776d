package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sortable/internal/config"
)

// Modules whose versions matter when a drag session or a store misbehaves.
var reportedModules = []struct{ name, path string }{
	{"chi", "github.com/go-chi/chi/v5"},
	{"websocket", "github.com/gorilla/websocket"},
	{"sqlite", "modernc.org/sqlite"},
	{"go-redis", "github.com/redis/go-redis/v9"},
	{"s3", "github.com/aws/aws-sdk-go-v2/service/s3"},
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version, store drivers and transport versions",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprint(out, banner)
			fmt.Fprintln(out)
			writeVersion(out)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "  Version:    %s (%s, built %s)\n", version, commit, date)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  Stores:     %s\n", strings.Join([]string{
		config.DriverMemory, config.DriverSQLite, config.DriverRedis, config.DriverS3,
	}, ", "))

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	deps := make(map[string]string, len(info.Deps))
	for _, d := range info.Deps {
		deps[d.Path] = d.Version
	}
	for _, m := range reportedModules {
		if v, ok := deps[m.path]; ok {
			fmt.Fprintf(w, "  %-11s %s\n", m.name+":", v)
		}
	}
}
