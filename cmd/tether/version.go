package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var (
		short bool
		deps  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the tether CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(version)
				return
			}

			printBanner()
			for _, row := range [][2]string{
				{"Version", version},
				{"Commit", commit},
				{"Built", date},
				{"Go version", runtime.Version()},
				{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
			} {
				fmt.Printf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("%-11s", row[0]+":")), row[1])
			}

			if deps {
				printDeps()
			}
			fmt.Println()
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&deps, "deps", false, "Also list linked module versions")

	return cmd
}

func printDeps() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		warn("Build info unavailable")
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render("  Modules"))
	for _, dep := range bi.Deps {
		if strings.HasPrefix(dep.Path, "golang.org/x/") {
			continue
		}
		fmt.Printf("  %s %s\n", dep.Path, mutedStyle.Render(dep.Version))
	}
}
