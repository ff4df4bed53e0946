// Command lux sends a console command to a running lux agent.
//
//	lux [--url URL] <command words...>
//
// The endpoint defaults to LUX_URL, then http://localhost:3003/api/command.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/saaga0h/lux-platform/pkg/config"
)

const (
	exitUsage = 1
	exitError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, http.DefaultClient))
}

type sendResponse struct {
	ID      *int64 `json:"id"`
	Handled bool   `json:"handled"`
	Message string `json:"message"`
}

func run(args []string, stdout, stderr io.Writer, client *http.Client) int {
	cfg := config.NewConfig()
	cfg.LoadFromEnv()

	fs := pflag.NewFlagSet("lux", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVar(&cfg.CommandURL, "url", cfg.CommandURL, "Command endpoint of the lux agent")
	timeout := fs.Duration("timeout", 10*time.Second, "Request timeout")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cmd := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if cmd == "" {
		fmt.Fprintln(stderr, "Usage: lux <command>  (e.g., lux open os)")
		return exitUsage
	}

	body, err := json.Marshal(map[string]string{"cmd": cmd})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to send command: %v\n", err)
		return exitError
	}

	httpClient := *client
	httpClient.Timeout = *timeout

	resp, err := httpClient.Post(cfg.CommandURL, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to send command: %v\n", err)
		return exitError
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read response: %v\n", err)
		return exitError
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fmt.Fprintf(stderr, "Error: %d %s\n", resp.StatusCode, strings.TrimSpace(string(data)))
		return exitError
	}

	var sent sendResponse
	if err := json.Unmarshal(data, &sent); err != nil {
		fmt.Fprintf(stderr, "Failed to send command: invalid response: %v\n", err)
		return exitError
	}

	id := "?"
	if sent.ID != nil {
		id = fmt.Sprint(*sent.ID)
	}
	fmt.Fprintf(stdout, "Sent: %s id: %s\n", cmd, id)
	if sent.Handled && sent.Message != "" {
		fmt.Fprintln(stdout, sent.Message)
	}
	return 0
}
