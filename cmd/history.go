package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamscout/streamscout/history"
	"github.com/streamscout/streamscout/icon"
	"github.com/streamscout/streamscout/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Print the records as JSON")
	historyCmd.Flags().IntP("limit", "n", 0, "Print at most this many records")
	historyCmd.SetOut(os.Stdout)

	historyCmd.AddCommand(historyClearCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recently dispatched selections",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.Get()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(records) {
			records = records[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		writeHistory(cmd.OutOrStdout(), records)
	},
}

func writeHistory(w io.Writer, records []*history.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, style.Faint("No history yet"))
		return
	}

	for _, r := range records {
		_, _ = fmt.Fprintln(w, r)
	}
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every dispatched selection",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Clear())
		fmt.Printf("%s history cleared\n", icon.Get(icon.Success))
	},
}
