package cmd

import (
	"github.com/halvard/gcnasm/cmd/cli/cmd/gcn"
	"github.com/spf13/cobra"
)

var gcnCmd = &cobra.Command{
	Use:     "gcn",
	GroupID: "arch",
	Short:   "GCN architecture",
	Long:    `Functions related to the GCN (Graphics Core Next) architecture.`,
}

func init() {
	gcnCmd.AddCommand(gcn.AssembleFileCmd)
}
