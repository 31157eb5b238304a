package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/ensureline/internal/cli"
	"github.com/aretw0/ensureline/internal/config"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
)

// applyFlags mirrors the edit parameters one flag each.
type applyFlags struct {
	dest         string
	state        string
	regexp       string
	line         string
	value        string
	backrefs     bool
	insertAfter  string
	insertBefore string
	backup       bool
	backupDest   string
	firstMatch   bool
	encodingFrom string
	encodingTo   string
	dialect      string

	check bool
	diff  bool
	json  bool
}

var applyOpts applyFlags

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply one edit",
	Long: `Ensures a line is present in, or absent from, a file or dataset.

  ensureline apply --dest 'USER.TEST.TXT(SIT)' --regexp '^SEC=' --line 'SEC=YES'
  ensureline apply --dest /etc/profile --state absent --regexp '^umask'`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	addApplyFlags(applyCmd, &applyOpts)
	addApplyFlags(rootCmd, &applyOpts)
	rootCmd.RunE = runApply
	rootCmd.AddCommand(applyCmd)
}

func addApplyFlags(cmd *cobra.Command, f *applyFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.dest, "dest", "", "absolute file path or dataset name (aliases --path, --zosdest)")
	fs.StringVar(&f.dest, "path", "", "alias of --dest")
	fs.StringVar(&f.dest, "zosdest", "", "alias of --dest")
	fs.StringVar(&f.state, "state", string(domain.ModePresent), "present or absent")
	fs.StringVar(&f.regexp, "regexp", "", "pattern looked for in every line")
	fs.StringVar(&f.line, "line", "", "line to insert or replace")
	fs.StringVar(&f.value, "value", "", "alias of --line")
	fs.BoolVar(&f.backrefs, "backrefs", false, "expand back-references in --line from the --regexp match")
	fs.StringVar(&f.insertAfter, "insertafter", "", "EOF or a pattern; insert after its last match")
	fs.StringVar(&f.insertBefore, "insertbefore", "", "BOF or a pattern; insert before its last match")
	fs.BoolVar(&f.backup, "backup", false, "back the destination up before editing")
	fs.StringVar(&f.backupDest, "backupdest", "", "explicit backup file or dataset name")
	fs.BoolVar(&f.firstMatch, "firstmatch", false, "use the first match of --insertafter/--insertbefore")
	fs.StringVar(&f.encodingFrom, "encoding-from", "", "code page of the stored data (default from config, IBM-1047)")
	fs.StringVar(&f.encodingTo, "encoding-to", "", "code page lines are edited in (default from config, ISO8859-1)")
	fs.StringVar(&f.dialect, "dialect", "", "regular expression dialect: re2 or compat")

	fs.BoolVar(&f.check, "check", false, "report what would change without writing")
	fs.BoolVar(&f.diff, "diff", false, "print a diff of the change")
	fs.BoolVar(&f.json, "json", false, "print the result as JSON")
}

// params converts the flags that were set into Params. Unset optional flags stay
// nil so validation sees them as omitted.
func (f *applyFlags) params(cmd *cobra.Command, cfg config.Config) (params.Params, error) {
	flags := cmd.Flags()
	p := params.Params{
		Destination: f.dest,
		State:       f.state,
		Backrefs:    f.backrefs,
		Backup:      f.backup,
		BackupDest:  f.backupDest,
		FirstMatch:  f.firstMatch,
		Dialect:     f.dialect,
	}

	optional := func(name, value string) *string {
		if !flags.Changed(name) {
			return nil
		}
		return domain.String(value)
	}
	p.Regexp = optional("regexp", f.regexp)
	p.InsertAfter = optional("insertafter", f.insertAfter)
	p.InsertBefore = optional("insertbefore", f.insertBefore)

	switch {
	case flags.Changed("line") && flags.Changed("value"):
		return p, &params.ValidationError{Field: "line", Message: "given both as --line and --value"}
	case flags.Changed("line"):
		p.Line = domain.String(f.line)
	case flags.Changed("value"):
		p.Line = domain.String(f.value)
	}

	if flags.Changed("encoding-from") || flags.Changed("encoding-to") {
		enc := cfg.Encoding
		if flags.Changed("encoding-from") {
			enc.From = f.encodingFrom
		}
		if flags.Changed("encoding-to") {
			enc.To = f.encodingTo
		}
		p.Encoding = &enc
	}
	return p, nil
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	p, err := applyOpts.params(cmd, cfg)
	if err != nil {
		return err
	}

	ed, closer, err := cli.NewEditor(cmd.Context(), cfg, cli.EditorOptions{Logger: logger, LogEvents: global.debug})
	if err != nil {
		return err
	}
	defer closer()

	return cli.Apply(cmd.Context(), ed, cfg, p, cli.ApplyOptions{
		Check: applyOpts.check,
		Diff:  applyOpts.diff,
		JSON:  applyOpts.json,
	}, cmd.OutOrStdout())
}
