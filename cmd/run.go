// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cclauss/elementpath/logging"
	"github.com/cclauss/elementpath/repl"
	"github.com/cclauss/elementpath/util"
	"github.com/cclauss/elementpath/version"
)

const defaultHistoryFile = ".elementpath_history"

func init() {

	var dataPath string
	outputFormat := util.NewEnumFlag("pretty", []string{"pretty", "json"})
	logLevel := util.NewEnumFlag("error", []string{"debug", "info", "error"})

	runCommand := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive shell",
		Long: `Start the interactive shell.

Path expressions typed at the prompt are evaluated against the loaded
document. Type 'help' at the prompt for the shell commands.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			banner := fmt.Sprintf("ElementPath %v (commit %v)", version.Version, version.Vcs)
			historyPath := filepath.Join(homeDir(), defaultHistoryFile)

			r, err := repl.New(os.Stdout, historyPath, outputFormat.String(), banner)
			if err != nil {
				return err
			}

			logger := logging.New()
			switch logLevel.String() {
			case "debug":
				logger.SetLevel(logging.Debug)
			case "info":
				logger.SetLevel(logging.Info)
			default:
				logger.SetLevel(logging.Error)
			}
			r = r.WithLogger(logger)

			if dataPath != "" {
				if err := r.OneShot("load " + dataPath); err != nil {
					return err
				}
			}
			r.Loop()
			return nil
		},
	}

	runCommand.Flags().StringVarP(&dataPath, "data", "d", "", "document to load on startup")
	setOutputFormat(runCommand.Flags(), outputFormat)
	runCommand.Flags().VarP(logLevel, "log-level", "l", "set log level")
	RootCommand.AddCommand(runCommand)
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
