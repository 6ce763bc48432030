package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavelanni/mockpaper/internal/llm/prompts"
	"github.com/pavelanni/mockpaper/internal/model"
	"github.com/pavelanni/mockpaper/internal/store"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export generated papers as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "mockpaper.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt <config.json>",
		Short: "Print the generation prompt for an exam configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrompt,
	}
	f := cmd.Flags()
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportPapers()
	if err != nil {
		return fmt.Errorf("export papers: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(v.GetString("output"), append(data, '\n'))
}

func runPrompt(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var cfg model.ExamConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	if errs := model.Validate(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid config: %v", errs)
	}
	cfg.AdditionalNotes = prompts.SanitizeNotes(cfg.AdditionalNotes)

	prompt, err := prompts.Build(cfg)
	if err != nil {
		return fmt.Errorf("build prompt: %w", err)
	}
	return writeOutput(v.GetString("output"), []byte(prompt+"\n"))
}

func writeOutput(path string, data []byte) error {
	var w io.Writer
	if path == "" || path == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
