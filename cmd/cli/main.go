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
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "labelpay-cli",
		Short: "LabelPay CLI tool",
		Long:  `A command line interface for interacting with the LabelPay API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LabelPay API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("LABELPAY_TOKEN"), "Bearer token (defaults to LABELPAY_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}
	rootCmd.AddCommand(healthCmd)

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile [account-id]",
		Short: "Verify account balances against the ledger",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/reconciliation/"
			if len(args) == 1 {
				path += args[0]
			}
			reconcile(path, len(args) == 1)
		},
	}
	ledgerCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(ledgerCmd)

	creditsCmd := &cobra.Command{
		Use:   "credits",
		Short: "Credit operations",
	}

	var description string
	assignCmd := &cobra.Command{
		Use:   "assign <user-id> <amount>",
		Short: "Assign credit to an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			creditOp("assign", args[0], args[1], description)
		},
	}
	assignCmd.Flags().StringVar(&description, "description", "", "Ledger row description")

	revokeCmd := &cobra.Command{
		Use:   "revoke <user-id> <amount>",
		Short: "Revoke credit from an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			creditOp("revoke", args[0], args[1], description)
		},
	}
	revokeCmd.Flags().StringVar(&description, "description", "", "Ledger row description")

	creditsCmd.AddCommand(assignCmd, revokeCmd)
	rootCmd.AddCommand(creditsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, payload any) (int, []byte) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	responseBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, responseBody
}

func checkHealth() {
	status, body := doRequest(http.MethodGet, "/ready", nil)
	if status != http.StatusOK {
		fmt.Printf("Service NOT ready (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}
	fmt.Printf("Service ready\n%s\n", string(body))
}

func reconcile(path string, single bool) {
	status, body := doRequest(http.MethodGet, path, nil)
	if status != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var results []map[string]any
	if single {
		var one map[string]any
		if err := json.Unmarshal(body, &one); err != nil {
			fmt.Printf("Failed to parse response: %v\n", err)
			os.Exit(1)
		}
		results = append(results, one)
	} else if err := json.Unmarshal(body, &results); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	drifted := 0
	for _, r := range results {
		reconciled, _ := r["isReconciled"].(bool)
		if reconciled {
			continue
		}
		drifted++
		fmt.Printf("DRIFT account=%v recorded=%v calculated=%v difference=%v\n",
			r["accountId"], r["recordedBalance"], r["calculatedBalance"], r["difference"])
	}

	if drifted > 0 {
		fmt.Printf("Reconciliation found drift on %d of %d accounts\n", drifted, len(results))
		os.Exit(1)
	}
	fmt.Printf("Reconciliation PASSED (%d accounts)\n", len(results))
}

func creditOp(op, userID, amount, description string) {
	payload := map[string]any{
		"userId":      userID,
		"amount":      amount,
		"description": description,
	}

	status, body := doRequest(http.MethodPost, "/api/v1/credits/"+op, payload)
	if status != http.StatusOK {
		fmt.Printf("Credit %s FAILED (Status: %d)\nResponse: %s\n", op, status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Credit %s OK\nNew balance: %v\n", op, result["creditBalance"])
}
