package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashai/internal/llm"
	"github.com/abhisek/flashai/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the deck generation requests sent to the AI provider",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printLLMEvents(cmd.OutOrStdout(), filterPurpose(events, purpose))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event ID %q", args[0])
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), ev)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		byPurpose, err := e.store.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := e.store.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		printLLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func filterPurpose(events []store.LLMRequestEvent, purpose string) []store.LLMRequestEvent {
	if purpose == "" {
		return events
	}
	var out []store.LLMRequestEvent
	for _, ev := range events {
		if ev.Purpose == purpose {
			out = append(out, ev)
		}
	}
	return out
}

func printLLMEvents(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM requests recorded yet.")
		return
	}
	t := newTable([]int{0, 4, 5, 6}, "ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗"
		}
		t.Row(itoa(ev.ID), ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Purpose,
			truncate(ev.Model, 28), itoa(ev.InputTokens), itoa(ev.OutputTokens),
			strconv.FormatInt(ev.LatencyMs, 10), ok)
	}
	printTable(w, "", t)
}

func printLLMEvent(w io.Writer, ev *store.LLMRequestEvent) {
	fields := newTable(nil)
	fields.Row("ID", itoa(ev.ID)).
		Row("Time", ev.Timestamp.Local().Format("2006-01-02 15:04:05")).
		Row("Provider", ev.Provider).
		Row("Model", ev.Model).
		Row("Purpose", ev.Purpose).
		Row("Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)).
		Row("Latency", fmt.Sprintf("%dms", ev.LatencyMs)).
		Row("Success", strconv.FormatBool(ev.Success))
	if ev.ErrorMessage != "" {
		fields.Row("Error", ev.ErrorMessage)
	}
	printTable(w, fmt.Sprintf("LLM request %d", ev.ID), fields)

	for _, part := range []struct{ title, body string }{
		{"Request", ev.RequestBody},
		{"Response", ev.ResponseBody},
	} {
		body := strings.TrimSpace(part.body)
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n", part.title, strings.Repeat("─", 60), body)
	}
}

func printLLMUsage(w io.Writer, byPurpose []store.LLMUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	usage := newTable([]int{1, 2, 3, 4, 5}, "Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	var calls, in, out int
	for _, u := range byPurpose {
		usage.Row(u.Purpose, itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens),
			itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	usage.Row("total", itoa(calls), itoa(in), itoa(out), itoa(in+out), "")
	printTable(w, "Usage by purpose", usage)

	if len(byModel) == 0 {
		return
	}
	costs := newTable([]int{1, 2, 3, 4}, "Model", "Calls", "Input", "Output", "Cost (USD)")
	var total float64
	var unpriced []string
	for _, m := range byModel {
		price, ok := llm.LookupCost(m.Model)
		cost := "?"
		if ok {
			c := price.Cost(m.InputTokens, m.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, m.Model)
		}
		costs.Row(truncate(m.Model, 32), itoa(m.Calls), itoa(m.InputTokens), itoa(m.OutputTokens), cost)
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	costs.Row(label, "", "", "", formatCost(total))
	fmt.Fprintln(w)
	printTable(w, "Estimated cost", costs)

	if len(unpriced) > 0 {
		fmt.Fprintf(w, "No pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose (e.g. card-gen)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
