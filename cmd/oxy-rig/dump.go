package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

type jointDump struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent,omitempty"`
	Position [3]float32 `yaml:"position,flow"`
}

type instanceDump struct {
	Scale    [3]float32 `yaml:"scale,flow"`
	Position [3]float32 `yaml:"position,flow"`
	Rotation [9]float32 `yaml:"rotation,flow"`
}

type commandDump struct {
	IndexCount    uint32 `yaml:"index_count"`
	InstanceCount uint32 `yaml:"instance_count"`
	FirstIndex    uint32 `yaml:"first_index"`
	BaseVertex    int32  `yaml:"base_vertex"`
	BaseInstance  uint32 `yaml:"base_instance"`
}

// poseDump is the YAML document written by the dump command.
type poseDump struct {
	Time      float32        `yaml:"time"`
	Mode      string         `yaml:"mode"`
	Joints    []jointDump    `yaml:"joints"`
	Commands  []commandDump  `yaml:"commands"`
	Instances []instanceDump `yaml:"instances,omitempty"`
}

func newDumpCommand(opts *rootOptions) *cobra.Command {
	var (
		t         float32
		out       string
		instances bool
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the pose and draw commands at time t as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			d, err := buildDump(cfg, t, instances)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			return writeDump(w, d)
		},
	}
	cmd.Flags().Float32VarP(&t, "time", "t", 0, "module time in seconds")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&instances, "instances", false, "include every instance record")
	return cmd
}

// buildDump evaluates the first rig of cfg at t and collects its joints, the frame's draw
// commands and optionally its instances.
func buildDump(cfg config.Config, t float32, withInstances bool) (poseDump, error) {
	mod := module.NewIKRigModule(module.WithConfig(cfg))
	defer mod.Close()

	if _, err := mod.Setup(); err != nil {
		return poseDump{}, err
	}
	frame, err := mod.Update(t)
	if err != nil {
		return poseDump{}, err
	}

	skel := rig.NewHumanoid()
	r := rig.NewRig(rig.WithSkeleton(skel), rig.WithDrivers(module.Drivers(cfg, 0)...))
	if err := r.Evaluate(frame.Time); err != nil {
		return poseDump{}, err
	}

	d := poseDump{Time: frame.Time, Mode: cfg.Animation.Mode}
	pose := r.Pose()
	for i := 0; i < skel.Len(); i++ {
		id := rig.JointID(i)
		j := jointDump{Name: skel.Name(id), Position: pose.World[i].Array()}
		if p := skel.Parent(id); p != rig.Null {
			j.Parent = skel.Name(p)
		}
		d.Joints = append(d.Joints, j)
	}
	for _, c := range frame.Commands {
		d.Commands = append(d.Commands, commandDump(c))
	}
	if withInstances {
		for _, inst := range frame.Instances {
			d.Instances = append(d.Instances, dumpInstance(inst))
		}
	}
	return d, nil
}

func dumpInstance(inst model.GPUInstance) instanceDump {
	return instanceDump{Scale: inst.Scale, Position: inst.Position, Rotation: inst.Rotation}
}

func writeDump(w io.Writer, d poseDump) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode dump: %w", err)
	}
	return enc.Close()
}
