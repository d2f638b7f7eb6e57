package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"formAgent/internal/cli"
	"formAgent/internal/cli/commands"
	"formAgent/internal/formfill"
	"formAgent/internal/server"
)

const version = "0.2.0"

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "form-agent",
		Short:         "Агент, который находит и заполняет формы на сайтах",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connectStore(false); err != nil {
				return err
			}
			runner := a.newRunner()

			var store commands.Store
			if a.repo != nil {
				store = a.repo
			}
			cli.New(store, runner, a.log).Run(cmd.Context())
			return nil
		},
	}

	root.AddCommand(newServeCmd(a), newFillCmd(a), newAnalyzeCmd(a))
	return root
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connectStore(true); err != nil {
				return err
			}
			runner := a.newRunner()
			defer runner.Shutdown()

			return server.New(a.cfg, a.log, a.repo, runner).Run(cmd.Context())
		},
	}
}

func newFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <инструкция>",
		Short: "Разобрать инструкцию и заполнить формы по адресу из нее",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connectStore(false); err != nil {
				return err
			}
			runner := a.newRunner()
			defer runner.Shutdown()

			out, err := runner.Run(cmd.Context(), strings.Join(args, " "), nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Report.String())
			if out.Rates.Found() {
				fmt.Fprintln(cmd.OutOrStdout(), out.Rates.Summary())
			}
			if !out.Report.Succeeded() {
				return errNothingSubmitted
			}
			return nil
		},
	}
}

var errNothingSubmitted = errors.New("ни одна форма не отправлена")

func newAnalyzeCmd(a *app) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "analyze <файл.html>",
		Short: "Заполнить формы локального HTML файла без браузера и найти ставки пошлин",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			markup, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("чтение файла: %w", err)
			}
			a.log.Debug("анализ файла", zap.String("path", args[0]), zap.Int("bytes", len(markup)))

			return analyze(cmd.Context(), cmd.OutOrStdout(), string(markup), values, a.log,
				formfill.OptionsFromConfig(a.cfg.Filler))
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "значение поля key=value, можно несколько раз")
	return cmd
}
