package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/limehawk/gam-multi/pkg/config"
	"github.com/limehawk/gam-multi/pkg/gam"
)

const doctorVersionTimeout = 30 * time.Second

type doctorCheckStatus string

const (
	doctorOK   doctorCheckStatus = "ok"
	doctorWarn doctorCheckStatus = "warn"
	doctorErr  doctorCheckStatus = "error"
	doctorSkip doctorCheckStatus = "skip"
)

type doctorCheck struct {
	Name    string            `json:"name"`
	Status  doctorCheckStatus `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

type doctorReport struct {
	CLI       string        `json:"cli"`
	Version   string        `json:"version"`
	OS        string        `json:"os"`
	Arch      string        `json:"arch"`
	Timestamp string        `json:"timestamp"`
	Checks    []doctorCheck `json:"checks"`
}

func (r doctorReport) failed() bool {
	for _, c := range r.Checks {
		if c.Status == doctorErr {
			return true
		}
	}
	return false
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the GAM installation and gam-mcp configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := runDoctor(cmd.Context(), opts)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else {
				printDoctorReport(cmd.OutOrStdout(), rep)
			}
			if rep.failed() {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func runDoctor(ctx context.Context, opts *rootOptions) doctorReport {
	rep := doctorReport{
		CLI:       cliName,
		Version:   version,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		rep.Checks = append(rep.Checks,
			doctorCheck{Name: "config", Status: doctorErr, Message: err.Error()},
			doctorCheck{Name: "gam", Status: doctorSkip, Message: "config did not load"},
		)
		return rep
	}
	rep.Checks = append(rep.Checks, checkConfigFile(opts.configPath))

	executor := gam.NewProcessExecutor(gam.ExecutorOptions{
		Binary:           cfg.GAM.Binary,
		BinaryCandidates: cfg.GAM.BinaryCandidates,
		DefaultTimeout:   cfg.Exec.Timeout,
		MaxOutputBytes:   cfg.Exec.MaxOutputBytes,
	})
	rep.Checks = append(rep.Checks, checkGAM(ctx, executor))
	rep.Checks = append(rep.Checks, checkAuditPath(cfg))
	return rep
}

func checkConfigFile(path string) doctorCheck {
	if _, err := os.Stat(path); err != nil {
		return doctorCheck{Name: "config", Status: doctorOK, Message: "defaults (no file at " + path + ")"}
	}
	return doctorCheck{Name: "config", Status: doctorOK, Message: path}
}

// gamRunner is the part of the executor doctor needs.
type gamRunner interface {
	gam.Executor
	ResolveBinaryPath() (string, error)
}

func checkGAM(ctx context.Context, runner gamRunner) doctorCheck {
	path, err := runner.ResolveBinaryPath()
	if err != nil {
		return doctorCheck{
			Name:    "gam",
			Status:  doctorErr,
			Message: err.Error(),
			Data:    map[string]string{"install_hint": "https://github.com/GAM-team/GAM/wiki"},
		}
	}
	c := doctorCheck{Name: "gam", Status: doctorOK, Message: path}

	out := runner.Run(gam.WithOperation(ctx, "doctor"), *gam.NewCommand("version"), doctorVersionTimeout)
	if !out.Success {
		c.Status = doctorWarn
		c.Data = map[string]string{"run_error": truncateOneLine(out.Error, 220)}
		return c
	}
	if line := firstNonEmptyLine(out.Output); line != "" {
		c.Data = map[string]string{"version": truncateOneLine(line, 180)}
	}
	return c
}

func checkAuditPath(cfg *config.Config) doctorCheck {
	if !cfg.Audit.Enabled {
		return doctorCheck{Name: "audit", Status: doctorSkip, Message: "disabled"}
	}
	dir := filepath.Dir(cfg.Audit.Path)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return doctorCheck{Name: "audit", Status: doctorErr, Message: dir + " is not a directory"}
	}
	return doctorCheck{Name: "audit", Status: doctorOK, Message: cfg.Audit.Path}
}

func printDoctorReport(w io.Writer, rep doctorReport) {
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("%s doctor", rep.CLI)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Version: %s\n", rep.Version)
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", rep.OS, rep.Arch)
	fmt.Fprintf(w, "Time: %s\n\n", rep.Timestamp)

	titles := map[doctorCheckStatus]string{doctorErr: "Errors", doctorWarn: "Warnings", doctorOK: "OK", doctorSkip: "Skipped"}
	marks := map[doctorCheckStatus]string{
		doctorErr:  styleErr.Render("✗"),
		doctorWarn: styleWarn.Render("!"),
		doctorOK:   styleOK.Render("✓"),
		doctorSkip: styleDim.Render("-"),
	}
	for _, st := range []doctorCheckStatus{doctorErr, doctorWarn, doctorOK, doctorSkip} {
		printed := false
		for _, c := range rep.Checks {
			if c.Status != st {
				continue
			}
			if !printed {
				fmt.Fprintln(w, titles[st]+":")
				printed = true
			}
			if c.Message != "" {
				fmt.Fprintf(w, "  %s %s: %s\n", marks[st], c.Name, c.Message)
			} else {
				fmt.Fprintf(w, "  %s %s\n", marks[st], c.Name)
			}
			keys := make([]string, 0, len(c.Data))
			for k := range c.Data {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "    %s=%s\n", k, c.Data[k])
			}
		}
		if printed {
			fmt.Fprintln(w)
		}
	}
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

func truncateOneLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
