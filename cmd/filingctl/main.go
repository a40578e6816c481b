// Package main implements the filingctl CLI for manual operations
// against the filingd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the filingd HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "filingctl",
	Short: "CLI for filingd HTTP server operations",
	Long: `filingctl is a command-line interface for interacting with the filingd HTTP server.
It provides commands for analyzing SEC filings and checking server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "filingd server URL")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(sampleCmd)
}

// analyzeCmd uploads filings for extraction
var analyzeCmd = &cobra.Command{
	Use:   "analyze <def14a-file> [10k-file]",
	Short: "Analyze SEC filings for corporate entities",
	Long: `Analyze SEC filings using the filingd server.

The DEF 14A proxy statement is required; the 10-K annual report is
optional and enables subsidiary extraction. Files may be PDF or plain
text. Use "-" to read the DEF 14A from stdin as plain text.

Examples:
  # Analyze a proxy statement and annual report
  filingctl analyze def14a.pdf 10k.pdf

  # Analyze a proxy statement alone
  filingctl analyze def14a.txt

  # Read the DEF 14A from stdin
  cat def14a.txt | filingctl analyze -

  # Use a different server
  filingctl analyze --server http://localhost:9000 def14a.pdf`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAnalyze,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check filingd server health",
	Long: `Check the health status of the filingd HTTP server.

Examples:
  # Check health
  filingctl health

  # Check health on a different server
  filingctl health --server http://localhost:9000`,
	RunE: runHealth,
}

// sampleCmd fetches the canned demo analysis
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Fetch a sample analysis payload",
	Long:  `Fetch the canned sample analysis from the filingd server, useful for demos and client testing.`,
	RunE:  runSample,
}

// HealthResponse matches internal/http/server.go HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

// readInput reads a filing from a file, or from stdin when path is "-".
// Returns the content and the filename to report to the server.
func readInput(path string) ([]byte, string, error) {
	if path == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, "stdin.txt", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return content, filepath.Base(path), nil
}

// runAnalyze handles the analyze command
func runAnalyze(cmd *cobra.Command, args []string) error {
	def14aContent, def14aName, err := readInput(args[0])
	if err != nil {
		return err
	}
	if len(def14aContent) == 0 {
		return fmt.Errorf("DEF 14A input is empty")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("def14a_file", def14aName)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := part.Write(def14aContent); err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if len(args) == 2 {
		tenKContent, tenKName, err := readInput(args[1])
		if err != nil {
			return err
		}
		part, err := w.CreateFormFile("10k_file", tenKName)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		if _, err := part.Write(tenKContent); err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/analyze", serverURL)
	httpReq, err := http.NewRequest("POST", url, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	client := &http.Client{
		Timeout: 120 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	return printJSONResponse(resp)
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}

// runSample handles the sample command
func runSample(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/api/v1/sample", serverURL)

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	return printJSONResponse(resp)
}

// printJSONResponse pretty-prints a JSON response body to stdout.
func printJSONResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err != nil {
		// Not JSON, print raw
		fmt.Println(string(body))
		return nil
	}

	fmt.Println(indented.String())
	return nil
}
