package main

import (
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-rig/engine/preview"
)

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var (
		t           float32
		out         string
		floor       bool
		supersample int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the rig at time t to a WebP image without a GPU",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			desc, frame, err := evaluateFrame(cfg, t)
			if err != nil {
				return err
			}

			options := []preview.RendererBuilderOption{
				preview.WithSize(cfg.Preview.Width, cfg.Preview.Height),
				preview.WithSupersample(supersample),
			}
			if floor || cfg.Preview.Floor != "" {
				tex, err := preview.LoadFloor(cfg.Preview.Floor, cfg.Preview.FloorSize)
				if err != nil {
					return err
				}
				options = append(options, preview.WithFloor(tex, 0, 0))
			}

			img := preview.NewRenderer(options...).Render(desc, frame)
			return preview.SaveWebP(out, img)
		},
	}
	cmd.Flags().Float32VarP(&t, "time", "t", 0, "module time in seconds")
	cmd.Flags().StringVarP(&out, "out", "o", "rig.webp", "output file")
	cmd.Flags().BoolVar(&floor, "floor", false, "draw a checkerboard floor when no floor texture is configured")
	cmd.Flags().IntVar(&supersample, "supersample", 2, "samples per pixel edge")
	return cmd
}
