// Command smoke probes a running instance after deployment. It walks
// the read endpoints with an operator token and cross-checks the
// invariants the UI relies on: fee totals add up, attendance stats
// match the sheet, dashboard counts are non-negative.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type check struct {
	Name     string
	Path     string
	Status   int
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base    string
		token   string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", os.Getenv("SMOKE_TOKEN"), "Bearer token for protected routes")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	prefix := strings.TrimRight(base, "/")

	checks := []check{
		probe(client, "health", prefix+"/health", "", nil),
		probe(client, "dashboard", prefix+"/api/v1/dashboard", token, checkDashboard),
		probe(client, "attendance sheet", prefix+"/api/v1/attendance", token, checkAttendance),
		probe(client, "fee ledger", prefix+"/api/v1/fees", token, checkFees),
		probe(client, "remarks", prefix+"/api/v1/remarks", token, nil),
	}

	failed := 0
	for _, c := range checks {
		status := "ok"
		if c.Error != nil {
			status = c.Error.Error()
			failed++
		}
		fmt.Printf("%-18s %-40s %3d %8s  %s\n", c.Name, c.Path, c.Status, c.Duration.Round(time.Millisecond), status)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func probe(client *http.Client, name, url, token string, verify func([]byte) error) check {
	c := check{Name: name, Path: url}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		c.Error = err
		return c
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	c.Duration = time.Since(start)
	if err != nil {
		c.Error = err
		return c
	}
	defer resp.Body.Close()

	c.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Error = fmt.Errorf("read body: %w", err)
		return c
	}
	if resp.StatusCode != http.StatusOK {
		c.Error = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return c
	}
	if verify != nil {
		c.Error = verify(body)
	}
	return c
}

func checkDashboard(body []byte) error {
	var envelope struct {
		Data struct {
			TotalStudents int `json:"total_students"`
			PresentToday  int `json:"present_today"`
			UnpaidFees    int `json:"unpaid_fees"`
			TotalRemarks  int `json:"total_remarks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode dashboard: %w", err)
	}
	d := envelope.Data
	if d.TotalStudents < 0 || d.PresentToday < 0 || d.UnpaidFees < 0 || d.TotalRemarks < 0 {
		return fmt.Errorf("negative dashboard count: %+v", d)
	}
	if d.PresentToday > d.TotalStudents {
		return fmt.Errorf("present today %d exceeds total students %d", d.PresentToday, d.TotalStudents)
	}
	return nil
}

func checkAttendance(body []byte) error {
	var envelope struct {
		Data struct {
			Sheet struct {
				Entries []struct {
					Status string `json:"status"`
				} `json:"entries"`
			} `json:"sheet"`
			Stats struct {
				Present int `json:"present"`
				Absent  int `json:"absent"`
				Total   int `json:"total"`
			} `json:"stats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode attendance: %w", err)
	}
	stats := envelope.Data.Stats
	if stats.Present+stats.Absent != stats.Total {
		return fmt.Errorf("stats do not add up: %+v", stats)
	}
	if stats.Total != len(envelope.Data.Sheet.Entries) {
		return fmt.Errorf("stats total %d does not match %d entries", stats.Total, len(envelope.Data.Sheet.Entries))
	}
	return nil
}

func checkFees(body []byte) error {
	var envelope struct {
		Data struct {
			Totals struct {
				TotalPaise     int64 `json:"total_paise"`
				PendingPaise   int64 `json:"pending_paise"`
				CollectedPaise int64 `json:"collected_paise"`
			} `json:"totals"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode fees: %w", err)
	}
	t := envelope.Data.Totals
	if t.PendingPaise+t.CollectedPaise != t.TotalPaise {
		return fmt.Errorf("fee totals do not add up: %+v", t)
	}
	return nil
}
