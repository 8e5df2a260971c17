package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/types"
)

var (
	practiceType       string
	practiceDifficulty string
	practiceRole       string
	practiceResume     string
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interview in the terminal",
	Long: `Run an interview session interactively. Type an answer and press enter.
Enter "skip" to skip a question and "quit" to finish early.`,
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringVar(&practiceType, "type", "Technical", "Interview type (Technical, Behavioral, ...)")
	practiceCmd.Flags().StringVar(&practiceDifficulty, "difficulty", "Mid", "Entry, Mid or Senior")
	practiceCmd.Flags().StringVar(&practiceRole, "role", "", "Job role to tailor questions to")
	practiceCmd.Flags().StringVar(&practiceResume, "resume", "", "Resume file to tailor questions to")
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	req := types.StartRequest{Type: practiceType, Difficulty: practiceDifficulty, JobRole: practiceRole}
	if practiceResume != "" {
		parsed, err := readResume(cmd, practiceResume, "")
		if err != nil {
			return err
		}
		req.ResumeText = parsed.ParsedText
	}

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return practice(cmd.Context(), a.orchestrator, server.LocalUserID, req, cmd.InOrStdin(), cmd.OutOrStdout())
}

// practice runs one session against in and out until it completes.
func practice(ctx context.Context, o *interview.Orchestrator, userID uuid.UUID, req types.StartRequest, in io.Reader, out io.Writer) error {
	session, err := o.Start(ctx, userID, req)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s interview (%s), %d questions\n", session.Type, session.Difficulty, len(session.Questions))
	printer := observability.NewPrinter(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for !session.Completed() {
		current, err := o.CurrentQuestion(ctx, session.ID)
		if err != nil {
			return err
		}
		printer.PrintQuestion(current.Index, current.Total, current.Question)
		_, _ = fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			session, err = o.Finish(ctx, session.ID)
			if err != nil {
				return err
			}
			break
		}

		answer := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(answer) {
		case "":
			continue
		case "quit":
			session, err = o.Finish(ctx, session.ID)
			if err != nil {
				return err
			}
			continue
		case "skip":
			answer = types.SkipSentinel
		}

		submitted, err := o.SubmitAnswer(ctx, session.ID, answer)
		if err != nil {
			return err
		}
		session = submitted.Session
		if submitted.Recorded != nil {
			printer.PrintEvaluation(submitted.Recorded.Evaluation)
		}
	}

	printer.PrintSession(session)
	return nil
}
