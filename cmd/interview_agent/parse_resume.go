package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/resume"
	"github.com/jonathan/interview-coach/internal/types"
)

var (
	parseResumeMIME   string
	parseResumePretty bool
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume <file>",
	Short: "Extract skills, experience and education from a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseResume,
}

func init() {
	parseResumeCmd.Flags().StringVar(&parseResumeMIME, "mime", "", "MIME type (default is detected from the file extension)")
	parseResumeCmd.Flags().BoolVar(&parseResumePretty, "pretty", false, "Print a boxed summary instead of JSON")
	rootCmd.AddCommand(parseResumeCmd)
}

func readResume(cmd *cobra.Command, path, mimeType string) (*types.ParsedResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if mimeType == "" {
		mimeType = resume.DetectMIMEType(path)
	}
	return resume.Parse(cmd.Context(), data, mimeType)
}

func runParseResume(cmd *cobra.Command, args []string) error {
	parsed, err := readResume(cmd, args[0], parseResumeMIME)
	if err != nil {
		return err
	}
	if parseResumePretty {
		observability.NewPrinter(cmd.OutOrStdout()).PrintResume(parsed)
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
