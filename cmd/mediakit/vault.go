package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/echocapsule/mediakit/internal/vault"
)

var (
	vaultDirFlag        string
	vaultExportDestFlag string
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Inspect and export the local media vault",
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved vault items, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vault.Open(vaultDirFlag)
		if err != nil {
			return err
		}
		defer v.Close()

		items, err := v.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("vault is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tFILENAME\tSIZE\tSAVED\tFILTER")
		for _, it := range items {
			filter := "-"
			if it.Metadata != nil && it.Metadata.Filter != "" {
				filter = string(it.Metadata.Filter)
			}
			if it.Metadata != nil && it.Metadata.AudioFilter != "" && it.Metadata.AudioFilter != "none" {
				filter = string(it.Metadata.AudioFilter)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				it.ID, it.Type, it.Filename, it.Size, it.CreatedAt.Format("2006-01-02 15:04"), filter)
		}
		return w.Flush()
	},
}

var vaultExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every vault item into a zip archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vault.Open(vaultDirFlag)
		if err != nil {
			return err
		}
		defer v.Close()

		return v.ExportZip(cmd.Context(), vaultExportDestFlag)
	},
}

func init() {
	vaultCmd.PersistentFlags().StringVar(&vaultDirFlag, "dir", defaultVaultDir(), "Vault directory")
	vaultExportCmd.Flags().StringVar(&vaultExportDestFlag, "dest", "vault-export.zip", "Archive destination path")

	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultExportCmd)
	rootCmd.AddCommand(vaultCmd)
}

func defaultVaultDir() string {
	if dir := os.Getenv("MEDIAKIT_VAULT_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mediakit-vault"
	}
	return home + "/.mediakit/vault"
}
