package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"podcraft/internal/cli/scheme/colours"
	"podcraft/internal/config"
	"podcraft/internal/domain/studio"
	"podcraft/internal/extract"
	"podcraft/internal/studio/cache"
	"podcraft/internal/studio/draft"
	"podcraft/internal/studio/episode"
	"podcraft/internal/studio/tts"
)

func main() {
	config.SetDefaults()

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		fmt.Println("\n" + colours.Warning.Sprint("👋 Stopping... cached segments are kept for next time"))
	}()

	rootCmd := &cobra.Command{
		Use:   "podcraft",
		Short: "🎙 Turn any text into a multi-speaker podcast",
		Long: `
┌──────────────────────────────────────┐
│  🎙  Welcome to Podcraft!            │
│  Turn articles, papers and notes     │
│  into multi-speaker podcasts 🎧      │
└──────────────────────────────────────┘

Podcraft drafts a dialogue script from your content, gives every speaker
their own synthesized voice, and mixes the result into one episode.
		`,
		Run: func(cmd *cobra.Command, args []string) {
			showWelcome()
		},
	}

	rootCmd.AddCommand(newCmd(ctx), cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func showWelcome() {
	fmt.Println()
	colours.Title.Println("🌟 Welcome to Podcraft! 🌟")
	fmt.Println()
	colours.Info.Println("🎙 Available commands:")
	fmt.Println("  • podcraft new <url|file>  - Produce a new episode")
	fmt.Println("  • podcraft cache status    - Inspect an episode's segment cache")
	fmt.Println("  • podcraft cache clear     - Drop an episode's segment cache")
	fmt.Println()
}

func newCmd(ctx context.Context) *cobra.Command {
	var (
		name       string
		configPath string
		format     string
		onlyScript bool
	)

	cmd := &cobra.Command{
		Use:   "new [url|file]",
		Short: "🎧 Produce a new podcast episode",
		Long:  "Extract content from a URL or file, draft a script, and record the episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := config.NewLogger()

			cfg, err := studio.Load(configPath)
			if err != nil {
				return err
			}

			colours.Info.Printf("📄 Extracting content from %s\n", args[0])
			content, err := extract.Extract(ctx, args[0])
			if err != nil {
				return err
			}

			workDir := filepath.Join(viper.GetString("output.dir"), name)
			if err := os.MkdirAll(workDir, 0755); err != nil {
				return fmt.Errorf("failed to create working directory %s: %w", workDir, err)
			}
			if err := os.WriteFile(filepath.Join(workDir, "content.txt"), []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to save extracted content: %w", err)
			}

			if format == "" {
				format = viper.GetString("export.format")
			}

			dispatcher := tts.NewDispatcher(log, tts.Options{
				OpenAIDelay: viper.GetDuration("tts.openai.delay"),
			})
			drafter := draft.NewOpenAIDrafter(viper.GetString("draft.model"), log)
			producer := episode.NewProducer(cfg, drafter, dispatcher, log)

			result, err := producer.Produce(ctx, content, episode.Options{
				Name:       name,
				Format:     format,
				OnlyScript: onlyScript,
				OutputRoot: viper.GetString("output.dir"),
			})
			if err != nil {
				return err
			}
			if result.AudioErr != nil {
				return fmt.Errorf("script for %q is saved and will be reused on retry, but audio failed: %w",
					name, result.AudioErr)
			}

			if onlyScript {
				colours.Success.Printf("✨ Script saved to %s\n", filepath.Join(workDir, episode.ScriptFile))
				return nil
			}
			colours.Success.Printf("✨ Episode saved to %s\n", result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the podcast episode")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the studio configuration file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: wav, mp3 or ogg")
	cmd.Flags().BoolVar(&onlyScript, "only-script", false, "Generate the script and exit")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("config")

	return cmd
}

func cacheCmd() *cobra.Command {
	var name string

	cacheRoot := func() string {
		return filepath.Join(viper.GetString("output.dir"), name, episode.SegmentsDir)
	}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "🗂 Manage the segment cache",
		Long:  "Inspect or drop the synthesized segment cache of an episode",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "📊 Show segment cache status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := cache.Stat(cacheRoot())
			if err != nil {
				return err
			}
			colours.Title.Printf("📊 Segment cache for %q\n", name)
			colours.Info.Printf("📁 Location: %s\n", stats.Dir)
			colours.Info.Printf("🎞 Segments: %d\n", stats.Entries)
			colours.Info.Printf("📏 Size: %.2f MB\n", float64(stats.TotalBytes)/(1024*1024))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "🧹 Drop the segment cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cache.Clear(cacheRoot()); err != nil {
				return err
			}
			colours.Success.Printf("✅ Cleared segment cache for %q\n", name)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&name, "name", "n", "", "Name of the podcast episode")
	cmd.MarkPersistentFlagRequired("name")

	cmd.AddCommand(statusCmd, clearCmd)
	return cmd
}

// Configuration management with Viper
func init() {
	viper.SetConfigName("podcraft")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.podcraft")
	viper.AddConfigPath(".")

	viper.ReadInConfig()
}
