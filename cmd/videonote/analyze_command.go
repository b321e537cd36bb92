package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"videonote/internal/export"
	"videonote/internal/logger"
	"videonote/internal/moments"
	"videonote/internal/notes"
	"videonote/internal/pipeline"
)

func newAnalyzeCommand(configFlag *string) *cobra.Command {
	var (
		videoFlag     string
		subtitlesFlag string
		styleFlag     string
		apiKeyFlag    string
		baseURLFlag   string
		modelFlag     string
		outFlag       string
		docxFlag      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Synthesize notes for one video + subtitle file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Logging.Level)
			ctx := cmd.Context()

			if _, err := os.Stat(videoFlag); err != nil {
				return fmt.Errorf("video file not found: %s", videoFlag)
			}
			subtitleText, err := os.ReadFile(subtitlesFlag)
			if err != nil {
				return fmt.Errorf("read subtitles: %w", err)
			}
			style, err := moments.ParseStyle(firstNonEmpty(styleFlag, cfg.LLM.Style))
			if err != nil {
				return err
			}

			pipe, _ := buildPipeline(cfg, log)
			ns, err := pipe.Synthesize(ctx, pipeline.Request{
				VideoPath:    videoFlag,
				SubtitleText: string(subtitleText),
				Style:        style,
				Model:        modelConfigFromFlags(cfg, apiKeyFlag, baseURLFlag, modelFlag),
			})
			if err != nil {
				return err
			}

			fmt.Println(renderNotesTable(ns))

			base := strings.TrimSuffix(filepath.Base(videoFlag), filepath.Ext(videoFlag))
			outDir := firstNonEmpty(outFlag, filepath.Dir(videoFlag))
			jsonPath := filepath.Join(outDir, base+".notes.json")
			if err := writeNotesJSON(jsonPath, ns); err != nil {
				return err
			}
			log.Info(ctx, "Notes written: %s", jsonPath)

			if docxFlag {
				docxPath := filepath.Join(outDir, base+".notes.docx")
				if err := export.WriteDocx(base, ns, docxPath); err != nil {
					return fmt.Errorf("write docx: %w", err)
				}
				log.Info(ctx, "Docx written: %s", docxPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&videoFlag, "video", "", "Path to the video file")
	cmd.Flags().StringVar(&subtitlesFlag, "subtitles", "", "Path to the subtitle file (srt/vtt/timed text)")
	cmd.Flags().StringVar(&styleFlag, "style", "", "Note style: professional, blog or tutorial")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Language model API key")
	cmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Custom model endpoint base URL")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Model identifier")
	cmd.Flags().StringVar(&outFlag, "out", "", "Output directory (defaults next to the video)")
	cmd.Flags().BoolVar(&docxFlag, "docx", false, "Also export the notes as a docx document")
	_ = cmd.MarkFlagRequired("video")
	_ = cmd.MarkFlagRequired("subtitles")

	return cmd
}

func renderNotesTable(ns []notes.Note) string {
	rows := make([][]string, 0, len(ns))
	for _, n := range ns {
		image := "-"
		if n.ImagePath != "" {
			image = filepath.Base(n.ImagePath)
		}
		rows = append(rows, []string{n.ID, n.Timestamp, n.Title, image})
	}
	return renderTable([]string{"ID", "Time", "Title", "Image"}, rows)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
