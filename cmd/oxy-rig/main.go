// Command oxy-rig drives the IK rig module: in a window, as a YAML pose dump, as a glTF
// export or as a software-rendered WebP preview.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "oxy-rig",
		Short:         "Procedural IK rig with skinned capsule instancing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML settings file (defaults when empty)")

	cmd.AddCommand(
		newRunCommand(opts),
		newDumpCommand(opts),
		newExportCommand(opts),
		newPreviewCommand(opts),
		newConfigCommand(opts),
	)
	return cmd
}

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if err := newRootCommand().Execute(); err != nil {
		log.Printf("[oxy-rig] %v", err)
		os.Exit(1)
	}
}
