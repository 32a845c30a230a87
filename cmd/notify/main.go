package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// notify posts a finished-task report to a running notifier instance so the
// operator gets the Telegram summary without wiring anything into their
// tooling. Typical use at the end of a long command:
//
//	long-build && notify -files 12 || notify -force-fail
func main() {
	var (
		baseURL       = flag.String("url", envOr("NOTIFIER_URL", "http://localhost:8000"), "notifier base URL")
		duration      = flag.Float64("duration", 0, "simulated task duration in seconds")
		forceFail     = flag.Bool("force-fail", false, "report the task as failed")
		files         = flag.Int("files", 0, "number of modified files")
		repo          = flag.String("repo", "", "repository name (default: current git repository)")
		executionTime = flag.Float64("execution-time", 0, "real execution time in seconds to report")
		start         = flag.String("start", "", "task start time, RFC 3339")
		end           = flag.String("end", "", "task end time, RFC 3339")
		dryRun        = flag.Bool("dry-run", false, "print the request body without sending it")
		timeout       = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	repositoryName := *repo
	if repositoryName == "" {
		repositoryName = detectRepository()
	}

	payload := map[string]any{
		"duration_seconds":     *duration,
		"force_fail":           *forceFail,
		"modified_files_count": *files,
	}
	if repositoryName != "" {
		payload["repository_name"] = repositoryName
	}
	if *executionTime > 0 {
		payload["execution_time_seconds"] = *executionTime
	}
	if err := putTimestamp(payload, "start_datetime", *start); err != nil {
		fatal(err)
	}
	if err := putTimestamp(payload, "end_datetime", *end); err != nil {
		fatal(err)
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fatal(err)
	}

	if *dryRun {
		fmt.Println(string(body))
		return
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Post(strings.TrimRight(*baseURL, "/")+"/tasks/start", "application/json", bytes.NewReader(body))
	if err != nil {
		fatal(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fatal(err)
	}

	fmt.Println(string(respBody))
	if resp.StatusCode != http.StatusOK {
		fatal(fmt.Errorf("server responded with %s", resp.Status))
	}
}

// detectRepository returns the basename of the enclosing git worktree, empty
// when not inside one.
func detectRepository() string {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return ""
	}
	return filepath.Base(strings.TrimSpace(string(out)))
}

func putTimestamp(payload map[string]any, key, value string) error {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	payload[key] = t.Format(time.RFC3339)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "notify:", err)
	os.Exit(1)
}
