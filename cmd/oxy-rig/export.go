package main

import (
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/exporter"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		t   float32
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the skinned rig at time t as binary glTF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			desc, frame, err := evaluateFrame(cfg, t)
			if err != nil {
				return err
			}
			return exporter.ExportGLB(out, desc, frame)
		},
	}
	cmd.Flags().Float32VarP(&t, "time", "t", 0, "module time in seconds")
	cmd.Flags().StringVarP(&out, "out", "o", "rig.glb", "output file")
	return cmd
}

// evaluateFrame runs a fresh module through Setup and a single Update at t.
func evaluateFrame(cfg config.Config, t float32) (module.DrawDescriptor, module.Frame, error) {
	mod := module.NewIKRigModule(module.WithConfig(cfg))
	defer mod.Close()

	desc, err := mod.Setup()
	if err != nil {
		return module.DrawDescriptor{}, module.Frame{}, err
	}
	frame, err := mod.Update(t)
	if err != nil {
		return module.DrawDescriptor{}, module.Frame{}, err
	}
	return desc, frame, nil
}
