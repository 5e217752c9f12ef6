package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL        string
	timeout        time.Duration
	asOf           string
	idempotencyKey string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetbooks-cli",
		Short: "FleetBooks CLI tool",
		Long:  `A command line interface for interacting with the FleetBooks ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FleetBooks API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	postCmd := &cobra.Command{
		Use:   "post [file]",
		Short: "Post a journal entry from a JSON file (or stdin with -)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postEntry(args[0])
		},
	}
	postCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header for the request")

	balanceCmd := &cobra.Command{
		Use:   "balance [account-code]",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalance(args[0])
		},
	}
	balanceCmd.Flags().StringVar(&asOf, "as-of", "", "Balance cutoff timestamp (RFC3339)")

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconciliation checks",
	}

	invoicesCmd := &cobra.Command{
		Use:   "invoices",
		Short: "Compare invoice paid amounts against the ledger",
		Run: func(cmd *cobra.Command, args []string) {
			runReconciliation("/api/v1/reconciliation/invoices")
		},
	}
	invoicesCmd.Flags().StringVar(&asOf, "as-of", "", "Reconciliation cutoff timestamp (RFC3339)")

	equationCmd := &cobra.Command{
		Use:   "equation",
		Short: "Check the accounting equation",
		Run: func(cmd *cobra.Command, args []string) {
			checkEquation()
		},
	}
	equationCmd.Flags().StringVar(&asOf, "as-of", "", "Reconciliation cutoff timestamp (RFC3339)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full reconciliation report",
		Run: func(cmd *cobra.Command, args []string) {
			runReconciliation("/api/v1/reconciliation/report")
		},
	}
	reportCmd.Flags().StringVar(&asOf, "as-of", "", "Reconciliation cutoff timestamp (RFC3339)")

	reconcileCmd.AddCommand(invoicesCmd)
	reconcileCmd.AddCommand(equationCmd)
	reconcileCmd.AddCommand(reportCmd)

	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(reconcileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func postEntry(path string) {
	var payload []byte
	var err error
	if path == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Printf("Failed to read entry: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/postings", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}

func showBalance(code string) {
	body := get(fmt.Sprintf("/api/v1/accounts/%s/balance", url.PathEscape(code)))

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Account: %s\n", result["account_code"])
	fmt.Printf("Balance: %s\n", result["balance_display"])
	fmt.Printf("As of:   %s\n", result["as_of"])
}

func checkEquation() {
	body := get("/api/v1/reconciliation/equation")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	balanced, _ := result["balanced"].(bool)
	if balanced {
		fmt.Println("Accounting equation HOLDS")
	} else {
		fmt.Println("Accounting equation VIOLATED")
	}
	fmt.Printf("Assets:      %s\n", result["assets_display"])
	fmt.Printf("Liabilities: %s\n", result["liabilities_display"])
	fmt.Printf("Equity:      %s\n", result["equity_display"])

	if !balanced {
		os.Exit(1)
	}
}

func runReconciliation(path string) {
	body := get(path)

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))

	if mismatches, ok := pretty["mismatches"].([]any); ok && len(mismatches) > 0 {
		fmt.Printf("\n%d mismatch(es) found\n", len(mismatches))
		os.Exit(1)
	}
}

func get(path string) []byte {
	target := baseURL + path
	if asOf != "" {
		target += "?as_of=" + url.QueryEscape(asOf)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
