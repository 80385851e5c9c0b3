package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/palacegate/bellsim/server"
)

var (
	observeURL     string // Base URL of a bellsim server
	observeMsgpack bool   // Request msgpack instead of JSON
	observeTimeout time.Duration
)

// BellClient triggers runs on a remote bellsim server.
type BellClient struct {
	baseURL    string
	msgpack    bool
	httpClient *http.Client
}

// NewBellClient creates a client for the server at baseURL.
func NewBellClient(baseURL string, useMsgpack bool, timeout time.Duration) *BellClient {
	return &BellClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		msgpack:    useMsgpack,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Run asks the server for one run. A nil seed lets the server choose.
func (c *BellClient) Run(ctx context.Context, seed *int64) (*server.RunResponse, error) {
	bodyBytes, err := json.Marshal(server.RunRequest{Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/bell/run", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("request creation: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.msgpack {
		httpReq.Header.Set("Accept", server.ContentTypeMsgpack)
	} else {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyData, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyData)))
	}

	var out server.RunResponse
	if strings.HasPrefix(resp.Header.Get("Content-Type"), server.ContentTypeMsgpack) {
		err = msgpack.NewDecoder(resp.Body).Decode(&out)
	} else {
		err = json.NewDecoder(resp.Body).Decode(&out)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

// observeCmd presses the button on a remote server and prints the outcome.
var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Trigger one run on a bellsim server and print the outcome",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveScenario(cmd)
		if observeURL == "" {
			logrus.Fatalf("--url is required")
		}

		client := NewBellClient(observeURL, observeMsgpack, observeTimeout)
		resp, err := client.Run(cmd.Context(), cfg.Seed)
		if err != nil {
			logrus.Fatalf("Observe failed: %v", err)
		}
		if err := writeObservation(cmd.OutOrStdout(), resp); err != nil {
			logrus.Fatalf("Writing report: %v", err)
		}
	},
}

func writeObservation(w io.Writer, resp *server.RunResponse) error {
	if _, err := io.WriteString(w, resp.Report.Narrative()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nRun %s (seed %d)\n", resp.RunID, resp.Seed)
	return err
}

func init() {
	observeCmd.Flags().StringVar(&observeURL, "url", "", "Base URL of a bellsim server, e.g. http://localhost:8080")
	observeCmd.Flags().BoolVar(&observeMsgpack, "msgpack", false, "Request a msgpack response")
	observeCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the remote run (default: server-chosen)")
	observeCmd.Flags().DurationVar(&observeTimeout, "timeout", 10*time.Second, "HTTP timeout")
	rootCmd.AddCommand(observeCmd)
}
