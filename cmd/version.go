package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print easel version",
	RunE:  runVersion,
}

func runVersion(_ *cobra.Command, _ []string) error {
	if versionShort {
		fmt.Println(version.Short())
	} else {
		fmt.Printf("easel %s\n", version.Full())
	}
	return nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
