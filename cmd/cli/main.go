package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lendbook-cli",
		Short: "Lendbook CLI tool",
		Long:  `A command line interface for interacting with the Lendbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Lendbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(loansCmd())
	rootCmd.AddCommand(ledgerCmd())
	rootCmd.AddCommand(collectionsCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Loan operations",
	}

	var collectionType string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/loans/"
			if collectionType != "" {
				path += "?collectionType=" + url.QueryEscape(collectionType)
			}
			return getJSON(path)
		},
	}
	listCmd.Flags().StringVar(&collectionType, "type", "", "Filter by collection type (daily, weekly, monthly, fire)")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a loan by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/loans/" + url.PathEscape(args[0]))
		},
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}

func ledgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <party>",
		Short: "Show a borrower's ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/ledger/" + url.PathEscape(args[0]))
		},
	}
}

func collectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Collection operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/collections/")
		},
	}

	var loanNo, date string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Collection report for a loan, a day, or both",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/collections/report?" + reportQuery(loanNo, date))
		},
	}
	reportCmd.Flags().StringVar(&loanNo, "loan", "", "Loan number")
	reportCmd.Flags().StringVar(&date, "date", "", "Day to report on (YYYY-MM-DD)")

	cmd.AddCommand(listCmd, reportCmd)
	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <loanNo>",
		Short: "Recompute all splits and totals for a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			resp, err := client.Post(baseURL+"/api/v1/loans/"+url.PathEscape(args[0])+"/reconcile", "application/json", nil)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()
			return printResponse(resp)
		},
	}
}

func reportQuery(loanNo, date string) string {
	values := url.Values{}
	if loanNo != "" {
		values.Set("loanNo", loanNo)
	}
	if date != "" {
		values.Set("date", date)
	}
	return values.Encode()
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if len(body) == 0 {
		fmt.Println("ok")
		return nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return nil
	}
	printJSON(v)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}
