// Command simctl is a thin HTTP client over a running cmd/server
// process: start/stop a simulation and inspect its status, statistics,
// and printer pool from a shell.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/printshop/printsim/internal/runtime"
)

var serverURL string

func main() {
	root := &cobra.Command{
		Use:           "simctl",
		Short:         "control and inspect a printsim server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "printsim server URL")

	root.AddCommand(startCmd(), stopCmd(), statusCmd(), statisticsCmd(), printersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	var req runtime.StartRequest
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start a new simulation run, overriding any parameters given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/simulation/start", req)
		},
	}
	cmd.Flags().IntVar(&req.NumJobs, "jobs", 0, "number of jobs to simulate (0 keeps the server default)")
	cmd.Flags().Float64Var(&req.PrintingRate, "printing-rate", 0, "printer service rate in pages/sec")
	cmd.Flags().Float64Var(&req.RefillRate, "refill-rate", 0, "paper refill rate in sheets/sec")
	cmd.Flags().IntVar(&req.ConsumerCount, "printers", 0, "initial printer count")
	cmd.Flags().IntVar(&req.QueueCapacity, "queue-capacity", 0, "bounded queue capacity, 0 keeps the server default")
	cmd.Flags().BoolVar(&req.AutoScaling, "auto-scaling", false, "enable the printer pool autoscaler")
	return cmd
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "request cooperative shutdown of the current simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/simulation/stop", nil)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "print the current run's lifecycle status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/simulation/status", nil)
		},
	}
}

func statisticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statistics",
		Short: "print the current run's derived statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/simulation/statistics", nil)
		},
	}
}

func printersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "print the current printer pool snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/printers", nil)
		},
	}
}

func request(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", serverURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
