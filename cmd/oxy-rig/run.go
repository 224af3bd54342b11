package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-rig/engine"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/config"
	"github.com/Carmen-Shannon/oxy-rig/engine/module"
	"github.com/Carmen-Shannon/oxy-rig/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/Carmen-Shannon/oxy-rig/engine/window"
)

// titleInterval is how often the window title shows the clock.
const titleInterval = 250 * time.Millisecond

func newRunCommand(opts *rootOptions) *cobra.Command {
	var (
		watch    bool
		uncapped bool
		software bool
		msaa     int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the rig in a window",
		Long: `Opens a window and animates the rig every frame.

Controls: space pauses, - and = change speed, R reloads the settings file,
C resets the camera, the mouse wheel zooms and dragging orbits. Esc quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("uncapped") {
				cfg.Window.VSync = !uncapped
			}
			if flags.Changed("software") {
				cfg.Window.Software = software
			}
			if flags.Changed("msaa") {
				cfg.Window.MSAA = msaa
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			host := hostOptions{
				configPath: opts.configPath,
				watch:      watch && opts.configPath != "",
			}
			return runHost(cfg, host)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the settings file when it changes")
	cmd.Flags().BoolVar(&uncapped, "uncapped", false, "present without vsync, overrides window.vsync")
	cmd.Flags().BoolVar(&software, "software", false, "force the fallback (software) adapter, overrides window.software")
	cmd.Flags().IntVar(&msaa, "msaa", 4, "multisample count, 1 or 4, overrides window.msaa")
	return cmd
}

type hostOptions struct {
	configPath string
	watch      bool
}

// runHost opens the window and blocks until it is closed.
func runHost(cfg config.Config, host hostOptions) error {
	w := window.NewWindow(window.WithSettings(cfg.Window))
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, w, renderer.WithSettings(cfg.Window))

	follow := camera.NewFollowController()
	cam := camera.NewCamera(
		camera.WithAspect(float32(w.Width())/float32(max(w.Height(), 1))),
		camera.WithController(follow),
	)

	var sceneOptions []scene.SceneBuilderOption
	if !cfg.Crowd.Cull {
		sceneOptions = append(sceneOptions, scene.WithCullingDisabled())
	}
	s := scene.NewScene("rig", cam, r, module.NewIKRigModule(module.WithConfig(cfg)), sceneOptions...)
	if err := s.Setup(); err != nil {
		return err
	}
	defer s.Close()

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithScene(0, s),
		engine.WithSettings(cfg.Window),
	)

	reload := func() error {
		if host.configPath == "" {
			return fmt.Errorf("no settings file given")
		}
		next, err := config.Load(host.configPath)
		if err != nil {
			return err
		}
		return s.Reload(next)
	}

	if host.watch {
		watcher, err := config.NewWatcher(host.configPath,
			config.WithOnChange(func(next config.Config) {
				if err := s.Reload(next); err != nil {
					log.Printf("[Config] reload rejected: %v", err)
				}
			}),
			config.WithOnError(func(err error) {
				log.Printf("[Config] %v", err)
			}),
		)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	ctl := &controls{playback: s, camera: follow, reload: reload}
	w.SetKeyDownCallback(ctl.handleKey)
	w.SetScrollCallback(ctl.handleScroll)
	w.SetDragCallback(ctl.handleDrag)

	lastTitle := time.Now()
	w.SetUpdateCallback(func() {
		if time.Since(lastTitle) < titleInterval {
			return
		}
		lastTitle = time.Now()
		w.SetTitle(windowTitle(cfg.Window.Title, s.Clock(), s.Speed(), s.Paused()))
	})

	log.Printf("[Engine] running %dx%d, %d rigs", w.Width(), w.Height(), cfg.Crowd.Size)
	eng.Run()
	eng.Quit()
	eng.Wait()
	return nil
}

// windowTitle formats the title bar: base title, clock, speed and pause state.
func windowTitle(base string, clock, speed float32, paused bool) string {
	title := fmt.Sprintf("%s | t=%.2f | x%.2f", base, clock, speed)
	if paused {
		title += " | paused"
	}
	return title
}
