package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/ensureline/internal/cli"
	"github.com/aretw0/ensureline/internal/config"
)

var batchOpts struct {
	file      string
	keepGoing bool
	check     bool
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Apply a list of edits from a YAML or JSON file",
	Long: `Applies every task of a file in order and prints a summary table. A task is a
map of the same parameters 'apply' takes; YAML yes/no values are accepted.

  - path: /etc/profile
    regexp: '^umask'
    line: umask 022
  - zosdest: SYS1.PARMLIB(IEASYS00)
    regexp: '^CLPA'
    state: absent`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		tasks, err := config.LoadTasks(batchOpts.file)
		if err != nil {
			return err
		}

		ed, closer, err := cli.NewEditor(cmd.Context(), cfg, cli.EditorOptions{Logger: logger, LogEvents: global.debug})
		if err != nil {
			return err
		}
		defer closer()

		return cli.Batch(cmd.Context(), cli.WithDefaults(ed, cfg), tasks, cli.BatchOptions{
			Check:     batchOpts.check,
			KeepGoing: batchOpts.keepGoing,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOpts.file, "file", "f", "", "task file")
	batchCmd.Flags().BoolVar(&batchOpts.keepGoing, "keep-going", false, "continue after a failed task")
	batchCmd.Flags().BoolVar(&batchOpts.check, "check", false, "report what would change without writing")
	_ = batchCmd.MarkFlagRequired("file")
}
