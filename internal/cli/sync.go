package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andy/focusflow/internal/domain"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Move data between devices and take backups",
}

var syncExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a link carrying all timers and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := workspace().Sync.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Println(exp.Payload)
			return nil
		}

		if exp.TooLarge {
			fmt.Printf("Data is too large to sync via QR code (%d > %d characters).\n", len(exp.URL), appInstance.Config.Sync.MaxURLLength)
			fmt.Println("Use 'focusflow sync export --raw' and transfer the payload another way.")
			return nil
		}

		fmt.Println(exp.URL)
		fmt.Printf("\n%d timers, %d sessions\n", len(exp.Snapshot.Timers), len(exp.Snapshot.History))
		return nil
	},
}

var syncImportCmd = &cobra.Command{
	Use:   "import <payload|url>",
	Short: "Replace local timers and history with exported data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws := appInstance.UseDataset(ctx, domain.DatasetReal)

		snap, err := ws.Sync.Decode(args[0])
		if err != nil {
			return fmt.Errorf("failed to import data, the link may be corrupted: %w", err)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			msg := fmt.Sprintf("Found import data from %s (%d timers, %d sessions).\nThis will OVERWRITE your current local data. Continue?",
				snap.ExportedAt.In(appInstance.Location).Format("2006-01-02"), len(snap.Timers), len(snap.History))
			if !confirmPrompt(msg) {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := ws.Sync.Import(ctx, snap); err != nil {
			return err
		}
		fmt.Println("✓ Data imported successfully")
		return nil
	},
}

var syncBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write snapshot backups on the configured schedule",
	Long: `Write snapshot files of the real dataset to backup.dir on the cron schedule
in backup.schedule, keeping the newest backup.keep files. Runs until
interrupted unless --once is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b := appInstance.NewBackuper()

		if once, _ := cmd.Flags().GetBool("once"); once {
			path, err := b.RunOnce(ctx)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			fmt.Printf("✓ Backup written to %s\n", path)
			return nil
		}

		if err := b.Start(ctx); err != nil {
			return err
		}
		defer b.Stop()

		fmt.Printf("Backing up to %s, next run %s. Press Ctrl-C to stop.\n",
			appInstance.Config.Backup.Dir, b.Next().In(appInstance.Location).Format(time.DateTime))
		<-ctx.Done()
		if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	syncExportCmd.Flags().Bool("raw", false, "print only the base64 payload")
	syncImportCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	syncBackupCmd.Flags().Bool("once", false, "write a single backup and exit")

	syncCmd.AddCommand(syncExportCmd)
	syncCmd.AddCommand(syncImportCmd)
	syncCmd.AddCommand(syncBackupCmd)
}
