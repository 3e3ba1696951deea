package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dgerlanc/dcg/internal/ledger"
	"github.com/dgerlanc/dcg/internal/redact"
	"github.com/spf13/cobra"
)

var (
	allowOnceSingleUse bool
	allowOnceForce     bool
	allowOncePick      int
	allowOnceHash      string
	allowOnceShowRaw   bool
	allowOnceClearPending bool
	allowOnceClearActive  bool
	allowOnceClearAll     bool
)

var allowOnceCmd = &cobra.Command{
	Use:   "allow-once CODE",
	Short: "Apply a pending code, promoting it to an active allow-once entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowOnce,
}

var allowOnceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger contents (redacted by default)",
	Args:  cobra.NoArgs,
	RunE:  runAllowOnceList,
}

var allowOnceRevokeCmd = &cobra.Command{
	Use:   "revoke CODE",
	Short: "Remove a pending or active entry by its short code",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowOnceRevoke,
}

var allowOnceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Truncate the pending and/or active ledger stores",
	Args:  cobra.NoArgs,
	RunE:  runAllowOnceClear,
}

func init() {
	rootCmd.AddCommand(allowOnceCmd)
	allowOnceCmd.Flags().BoolVar(&allowOnceSingleUse, "single-use", false, "The promoted entry is consumed after one use")
	allowOnceCmd.Flags().BoolVar(&allowOnceForce, "force", false, "Mark the promoted entry as force-flagged")
	allowOnceCmd.Flags().IntVar(&allowOncePick, "pick", 0, "1-based disambiguation index on short-code collision")
	allowOnceCmd.Flags().StringVar(&allowOnceHash, "hash", "", "Disambiguate a short-code collision by full hash")

	allowOnceCmd.AddCommand(allowOnceListCmd)
	allowOnceCmd.AddCommand(allowOnceRevokeCmd)
	allowOnceCmd.AddCommand(allowOnceClearCmd)

	allowOnceListCmd.Flags().BoolVar(&allowOnceShowRaw, "show-raw", false, "Show unredacted commands")
	allowOnceClearCmd.Flags().BoolVar(&allowOnceClearPending, "pending", false, "Clear only the pending-codes store")
	allowOnceClearCmd.Flags().BoolVar(&allowOnceClearActive, "allow-once", false, "Clear only the active allow-once store")
	allowOnceClearCmd.Flags().BoolVar(&allowOnceClearAll, "all", false, "Clear both stores")
}

func runAllowOnce(cmd *cobra.Command, args []string) error {
	code := args[0]

	pendingPath, err := pendingStorePath()
	if err != nil {
		return err
	}
	activePath, err := activeStorePath()
	if err != nil {
		return err
	}
	pending := ledger.NewPendingStore(pendingPath)
	active := ledger.NewActiveStore(activePath)

	now := time.Now()
	matches := pending.FindPendingByCode(code, now)
	if len(matches) == 0 {
		return fmt.Errorf("no pending code %q (it may have expired)", code)
	}

	var selected ledger.PendingCode
	switch {
	case allowOnceHash != "":
		found := false
		for _, m := range matches {
			if m.Hash == allowOnceHash {
				selected = m
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no pending code %q with hash %q", code, allowOnceHash)
		}
	case allowOncePick > 0:
		if allowOncePick > len(matches) {
			return fmt.Errorf("--pick %d out of range (%d candidate(s))", allowOncePick, len(matches))
		}
		selected = matches[allowOncePick-1]
	case len(matches) > 1:
		fmt.Fprintf(os.Stderr, "multiple pending commands match code %q, disambiguate with --pick N or --hash:\n", code)
		for i, m := range matches {
			fmt.Fprintf(os.Stderr, "  %d. %s  (%s)\n", i+1, redact.Command(m.RawCommand), m.Hash)
		}
		return fmt.Errorf("ambiguous short code")
	default:
		selected = matches[0]
	}

	entry := selected.Promote(allowOnceSingleUse, allowOnceForce, now)
	if err := active.Append(entry); err != nil {
		return fmt.Errorf("persist allow-once entry: %w", err)
	}
	active.Prune(now)
	pending.Prune(now)

	fmt.Printf("allow-once entry created for %q (scope %s)\n", redact.Command(entry.RawCommand), entry.Scope)
	return nil
}

func runAllowOnceList(cmd *cobra.Command, args []string) error {
	pendingPath, err := pendingStorePath()
	if err != nil {
		return err
	}
	activePath, err := activeStorePath()
	if err != nil {
		return err
	}
	pending := ledger.NewPendingStore(pendingPath).ReadAll()
	active := ledger.NewActiveStore(activePath).ReadAll()

	display := func(raw string) string {
		if allowOnceShowRaw {
			return raw
		}
		return redact.Command(raw)
	}

	if outputFormat == "json" {
		out := struct {
			Pending []ledger.PendingCode    `json:"pending"`
			Active  []ledger.AllowOnceEntry `json:"active"`
		}{Pending: pending, Active: active}
		if !allowOnceShowRaw {
			for i := range out.Pending {
				out.Pending[i].RawCommand = display(out.Pending[i].RawCommand)
			}
			for i := range out.Active {
				out.Active[i].RawCommand = display(out.Active[i].RawCommand)
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("pending:")
	for _, p := range pending {
		fmt.Printf("  %s  %s  %s  expires %s\n", p.Code, p.RuleID, display(p.RawCommand), p.ExpiresAt)
	}
	fmt.Println("active:")
	for _, a := range active {
		status := ""
		if a.IsConsumed() {
			status = " (consumed)"
		}
		fmt.Printf("  %s  %s  %s  scope=%s%s\n", a.Code, a.RuleID, display(a.RawCommand), a.Scope, status)
	}
	return nil
}

func runAllowOnceRevoke(cmd *cobra.Command, args []string) error {
	code := args[0]

	pendingPath, err := pendingStorePath()
	if err != nil {
		return err
	}
	activePath, err := activeStorePath()
	if err != nil {
		return err
	}
	pending := ledger.NewPendingStore(pendingPath)
	active := ledger.NewActiveStore(activePath)

	removedPending, err := pending.RemovePendingByCode(code)
	if err != nil {
		return fmt.Errorf("revoke pending: %w", err)
	}
	removedActive, err := active.RemoveActiveByCode(code)
	if err != nil {
		return fmt.Errorf("revoke active: %w", err)
	}
	if removedPending+removedActive == 0 {
		return fmt.Errorf("no entry found for code %q", code)
	}
	fmt.Printf("revoked %d pending and %d active entr(y/ies) for %q\n", removedPending, removedActive, code)
	return nil
}

func runAllowOnceClear(cmd *cobra.Command, args []string) error {
	clearPending := allowOnceClearPending || allowOnceClearAll
	clearActive := allowOnceClearActive || allowOnceClearAll
	if !clearPending && !clearActive {
		return fmt.Errorf("specify --pending, --allow-once, or --all")
	}

	if clearPending {
		pendingPath, err := pendingStorePath()
		if err != nil {
			return err
		}
		if err := ledger.NewPendingStore(pendingPath).Clear(); err != nil {
			return fmt.Errorf("clear pending store: %w", err)
		}
	}
	if clearActive {
		activePath, err := activeStorePath()
		if err != nil {
			return err
		}
		if err := ledger.NewActiveStore(activePath).Clear(); err != nil {
			return fmt.Errorf("clear active store: %w", err)
		}
	}
	fmt.Println("cleared")
	return nil
}
