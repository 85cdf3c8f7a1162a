package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	mediasort "github.com/user/media-sorter/cmd/mediasort/lib"
	"github.com/user/media-sorter/pkg"
)

var appVersion = "0.1.0"

var (
	cfgFile       string
	verbose       bool
	source        string
	destination   string
	useModified   bool
	noCameraModel bool
	cameraPrefix  bool
	manualCamera  string
	copyFiles     bool
	keepNames     bool
)

var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "Organize photos and videos into date-based folders",
	Long: `mediasort sorts media files from a source directory into a destination tree
laid out by capture date (YYYY/MM/DD), optionally grouped by camera model.
Capture dates come from EXIF tags, video container metadata, or filesystem
timestamps, in that order.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Process files once without monitoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		_, err = mediasort.Run(cfg)
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the source directory and process new files automatically",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mediasort.Watch(ctx, cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appVersion)
	},
}

// addRunFlags registers the flag set shared by the once and watch commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "TOML config file path")
	cmd.Flags().StringVarP(&source, "source", "s", "", "source directory containing media files")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "destination directory for organized files")
	cmd.Flags().BoolVar(&useModified, "use-modified", false, "on EXIF failure, use the file's modified time instead of its creation time")
	cmd.Flags().BoolVar(&noCameraModel, "no-camera-model", false, "disable the camera model folder segment")
	cmd.Flags().BoolVar(&cameraPrefix, "camera-prefix", false, "place the camera model before the date folders (default is after)")
	cmd.Flags().StringVar(&manualCamera, "manual-camera-model", "", "camera model to use instead of EXIF extraction")
	cmd.Flags().BoolVar(&copyFiles, "copy", false, "copy files instead of moving them")
	cmd.Flags().BoolVar(&keepNames, "keep-names", false, "keep original filenames instead of renaming to the capture timestamp")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	addRunFlags(onceCmd)
	addRunFlags(watchCmd)

	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildConfig layers explicitly-set flags over the config file (when given)
// over the defaults, then validates the result.
func buildConfig(cmd *cobra.Command) (pkg.Config, error) {
	cfg := pkg.DefaultConfig()
	if cfgFile != "" {
		var err error
		cfg, err = pkg.LoadConfigFile(cfgFile)
		if err != nil {
			return pkg.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceDir = source
	}
	if flags.Changed("destination") {
		cfg.DestinationDir = destination
	}
	if flags.Changed("use-modified") {
		cfg.PreferModifiedTime = useModified
	}
	if flags.Changed("no-camera-model") {
		cfg.CameraGrouping = !noCameraModel
	}
	if flags.Changed("camera-prefix") {
		cfg.CameraPrefix = cameraPrefix
	}
	if flags.Changed("manual-camera-model") {
		cfg.ManualCamera = manualCamera
	}
	if flags.Changed("copy") {
		cfg.CopyFiles = copyFiles
	}
	if flags.Changed("keep-names") {
		cfg.KeepNames = keepNames
	}

	if err := cfg.Validate(); err != nil {
		return pkg.Config{}, err
	}

	info, err := os.Stat(cfg.SourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return pkg.Config{}, fmt.Errorf("source directory '%s' does not exist", cfg.SourceDir)
		}
		return pkg.Config{}, fmt.Errorf("could not stat source directory '%s': %w", cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return pkg.Config{}, fmt.Errorf("source path '%s' is not a directory", cfg.SourceDir)
	}

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
