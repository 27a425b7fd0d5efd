package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/checker"
	"github.com/brettbedarf/filetree/config"
	"github.com/brettbedarf/filetree/filesystem"
	"github.com/brettbedarf/filetree/internal/util"
	"github.com/brettbedarf/filetree/requests"
)

var errInvariants = errors.New("tree invariants violated")

// options are the parsed command line flags
type options struct {
	configPath string
	verbose    int
	check      bool
	rmDirs     []string
	rmFiles    []string
	stats      []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and maps its error to a process exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	return int(filetree.StatusOf(err))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "ft [flags] <defs-file>",
		Short: "Build an in-memory file tree from node definitions and dump it",
		Long: `Build an in-memory file tree from a JSON or YAML node definitions file.

Directories are inserted first, then files. Removals run next, then stat
queries, and finally the tree is dumped to stdout in pre-order.

Examples:
  ft nodes.yaml
  ft -v 4 --rm-dir /usr/lib nodes.json
  ft --stat /usr/bin/ls --check nodes.yml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			util.InitializeLogger(cfg.LogLvl, stderr)
			cmd.SetErr(util.NewLogWriter("cli", util.ErrorLevel))

			err = buildAndDump(cfg, &opts, args[0], stdout)
			if err != nil {
				logger := util.GetLogger("main")
				logger.Error().Err(err).
					Str("status", filetree.StatusOf(err).String()).Msg("Command failed")
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	flags.IntVarP(&opts.verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")
	flags.BoolVar(&opts.check, "check", config.DefaultCheckInvariants, "Audit tree invariants after every mutation")
	flags.StringArrayVar(&opts.rmDirs, "rm-dir", nil, "Remove a directory subtree after loading (repeatable)")
	flags.StringArrayVar(&opts.rmFiles, "rm-file", nil, "Remove a file after loading (repeatable)")
	flags.StringArrayVar(&opts.stats, "stat", nil, "Print the kind and size of a path (repeatable)")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

// loadConfig merges the config file, if any, with flags the user set
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if opts.configPath != "" {
		override, err := config.LoadConfigOverrideFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(override)
	}

	override := &config.ConfigOverride{}
	if cmd.Flags().Changed("verbose") || opts.configPath == "" {
		override.LogLvl = &opts.verbose
	}
	if cmd.Flags().Changed("check") {
		override.CheckInvariants = &opts.check
	}
	cfg.Merge(override)
	return cfg, nil
}

func buildAndDump(cfg *config.Config, opts *options, defsPath string, stdout io.Writer) error {
	logger := util.GetLogger("main")

	batch, err := requests.LoadFile(defsPath)
	if err != nil {
		return fmt.Errorf("load node definitions %s: %w", defsPath, err)
	}
	logger.Debug().Int("directories", len(batch.Dirs)).Int("files", len(batch.Files)).
		Str("defs", defsPath).Msg("Node definitions loaded")

	tree := filesystem.NewTree()
	if err := tree.Init(); err != nil {
		return err
	}
	defer tree.Destroy() // nolint:errcheck

	audit := func(what, path string) error {
		if cfg.CheckInvariants && !checker.TreeValid(tree) {
			return fmt.Errorf("%s %s: %w", what, path, errInvariants)
		}
		return nil
	}

	if _, err := requests.Apply(tree, batch, func(req filetree.NodeRequest, _ error) error {
		return audit("insert", req.Path)
	}); err != nil {
		return err
	}

	// Removal and stat failures are reported but do not stop the run; the
	// last one sets the exit status
	var lastErr error
	for _, p := range opts.rmDirs {
		if err := tree.RmDir(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to remove directory")
			lastErr = err
		}
		if err := audit("rm-dir", p); err != nil {
			return err
		}
	}
	for _, p := range opts.rmFiles {
		if err := tree.RmFile(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to remove file")
			lastErr = err
		}
		if err := audit("rm-file", p); err != nil {
			return err
		}
	}
	for _, p := range opts.stats {
		st, err := tree.Stat(p)
		if err != nil {
			fmt.Fprintf(stdout, "%s\t%s\n", p, filetree.StatusOf(err))
			lastErr = err
			continue
		}
		if st.IsFile {
			fmt.Fprintf(stdout, "%s\tfile\t%d\n", p, st.Size)
		} else {
			fmt.Fprintf(stdout, "%s\tdir\n", p)
		}
	}

	dump, err := tree.Dump()
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, dump)
	logger.Info().Int("directories", tree.DirCount()).Msg("Tree dumped")
	return lastErr
}
