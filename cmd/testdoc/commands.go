package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Anvaishxx0/Testing-Documentation/internal/server"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/output"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
)

var (
	submitTask        string
	submitTester      string
	submitVerdict     string
	submitComment     string
	submitScreenshots []string
	submitOut         string
	submitNoSync      bool

	tasksTester string
	inspectOut  string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record a test result",
	Long: `Writes a result block into the task's detail sheet, mirrors the result into
the master sheet, rebuilds the Summary sheet and pushes the workbook.

Example:
  testdoc submit --task 3 --tester Asha --verdict Pass --screenshot home.png`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the summary computed from the master sheet",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks and whether they can be picked",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

var testersCmd = &cobra.Command{
	Use:   "testers",
	Short: "List tester names from the master sheet",
	Args:  cobra.NoArgs,
	RunE:  runTesters,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [workbook.xlsx]",
	Short: "Print charts, pictures and summary of a workbook as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker API for browser clients",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	f := submitCmd.Flags()
	f.StringVarP(&submitTask, "task", "t", "", "Task ID")
	f.StringVar(&submitTester, "tester", "", "Tester name")
	f.StringVar(&submitVerdict, "verdict", "", "Pass, Fail or Hold")
	f.StringVarP(&submitComment, "comment", "c", "", "Comment")
	f.StringArrayVarP(&submitScreenshots, "screenshot", "s", nil, "Screenshot image (repeatable)")
	f.StringVarP(&submitOut, "out", "o", "", "Write the updated workbook here (default: the workbook path)")
	f.BoolVar(&submitNoSync, "no-sync", false, "Do not push to the remote repository")
	_ = submitCmd.MarkFlagRequired("task")
	_ = submitCmd.MarkFlagRequired("tester")
	_ = submitCmd.MarkFlagRequired("verdict")

	tasksCmd.Flags().StringVar(&tasksTester, "tester", "", "Only tasks assigned to this tester")
	inspectCmd.Flags().StringVarP(&inspectOut, "output", "o", "", "Output file path (default: stdout)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	verdict, err := testdoc.ParseVerdict(submitVerdict)
	if err != nil {
		return err
	}

	sub := testdoc.Submission{
		TaskID:  submitTask,
		Tester:  submitTester,
		Verdict: verdict,
		Comment: submitComment,
	}
	for _, path := range submitScreenshots {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read screenshot: %w", err)
		}
		sub.Screenshots = append(sub.Screenshots, data)
	}

	tr := newTracker(!submitNoSync)
	ctx := cmd.Context()

	var res *testdoc.Result
	if tr.HasStore() {
		res, err = tr.SubmitRemote(ctx, sub)
	} else {
		var data []byte
		if data, _, err = loadWorkbook(ctx, tr); err != nil {
			return err
		}
		res, err = tr.Submit(ctx, data, sub)
	}
	if res == nil {
		return err
	}
	syncErr := err

	out := submitOut
	if out == "" {
		out = cfg.Workbook
	}
	if err := os.WriteFile(out, res.Workbook, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("workbook saved", zap.String("path", out))

	if syncErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\nthe updated workbook was saved to %s\n", syncErr, out)
	}

	if jsonOut {
		return printJSON(res)
	}
	w := cmd.OutOrStdout()
	output.Messagef(w, "Recorded %s for Task %s by %s at %s", res.Task.Result, res.Task.RawID, res.Task.Tester, res.Timestamp)
	output.Messagef(w, "Sheet %q rows %d-%d (%d screenshot(s))", res.Block.Sheet, res.Block.StartRow, res.Block.EndRow, res.Block.Images)
	if res.Synced {
		output.Messagef(w, "Pushed to %s/%s (commit %s)", cfg.Remote.Repo, cfg.Remote.Path, res.CommitSHA)
	}
	output.Messagef(w, "%s", res.Summary.Overall)
	return nil
}

// readMaster loads the workbook and reads its master sheet.
func readMaster(cmd *cobra.Command) (*excelize.File, *parser.Table, error) {
	tr := newTracker(true)
	data, _, err := loadWorkbook(cmd.Context(), tr)
	if err != nil {
		return nil, nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	table, err := parser.ReadTable(f, cfg.MasterSheet)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %q", workbook.ErrNoMasterSheet, cfg.MasterSheet)
	}
	return f, table, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, table, err := readMaster(cmd)
	if err != nil {
		return err
	}
	defer f.Close()

	s := workbook.Summarize(table, workbook.ReadLastUpdate(f))
	if jsonOut {
		return printJSON(s)
	}
	output.SummaryText(cmd.OutOrStdout(), s)
	return nil
}

func runTasks(cmd *cobra.Command, args []string) error {
	f, table, err := readMaster(cmd)
	if err != nil {
		return err
	}
	defer f.Close()

	tasks := testdoc.Availability(table, tasksTester)
	if jsonOut {
		return printJSON(tasks)
	}
	output.TaskTable(cmd.OutOrStdout(), tasks)
	return nil
}

func runTesters(cmd *cobra.Command, args []string) error {
	f, table, err := readMaster(cmd)
	if err != nil {
		return err
	}
	defer f.Close()

	names := testdoc.Testers(table)
	if jsonOut {
		return printJSON(names)
	}
	for _, name := range names {
		output.Messagef(cmd.OutOrStdout(), "%s", name)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		name string
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", args[0])
		}
		name = filepath.Base(args[0])
	} else {
		data, name, err = loadWorkbook(cmd.Context(), newTracker(true))
	}
	if err != nil {
		return err
	}

	report, err := testdoc.Inspect(data, name, cfg.Options())
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	jsonData, err := output.ToJSON(report, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if inspectOut != "" {
		if err := os.WriteFile(inspectOut, jsonData, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonData))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(newTracker(true), server.Config{
		Path:           cfg.Workbook,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		Logger:         logger,
	})
	return srv.Run(ctx, cfg.Server.Addr)
}
