package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"receipt-reconciliation/internal/config"
	"receipt-reconciliation/internal/engine"
	"receipt-reconciliation/internal/gateway"
	"receipt-reconciliation/internal/server"
	"receipt-reconciliation/internal/usecase"
)

type app struct {
	cfgPath string
	envFile string
	cfg     *config.Config
	logger  zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "reconciler",
		Short:         "Validate receipts against purchase orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(
		a.validateCmd(),
		a.runCmd(),
		a.batchCmd(),
		a.serveCmd(),
	)
	return rootCmd
}

// setup loads configuration and installs the logger on the command context.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "serve" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	a.cfg = cfg
	a.logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	cmd.SetContext(a.logger.WithContext(cmd.Context()))
	return nil
}

func (a *app) engine() (*engine.Engine, error) {
	eng, err := engine.New(a.cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}

func (a *app) useCase(storeRoot string) (*usecase.ValidationUseCase, error) {
	eng, err := a.engine()
	if err != nil {
		return nil, err
	}
	if storeRoot == "" {
		storeRoot = a.cfg.Store.Root
	}
	repo := gateway.NewFileRepository(storeRoot)
	return usecase.NewValidationUseCase(repo, eng, usecase.WithBatchConcurrency(a.cfg.Batch.Concurrency)), nil
}

func (a *app) validateCmd() *cobra.Command {
	var receiptPath, poPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a receipt file against a purchase order file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			receipt, err := gateway.ReadReceiptFile(receiptPath)
			if err != nil {
				return err
			}
			po, err := gateway.ReadPurchaseOrderFile(poPath)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), eng.Validate(receipt, po))
		},
	}
	cmd.Flags().StringVar(&receiptPath, "receipt", "", "Path to the receipt document (.json, .yaml)")
	cmd.Flags().StringVar(&poPath, "po", "", "Path to the purchase order document (.json, .yaml, .csv)")
	_ = cmd.MarkFlagRequired("receipt")
	_ = cmd.MarkFlagRequired("po")
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	var storeRoot, receiptID, poID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate a stored receipt against a stored purchase order and keep the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := a.useCase(storeRoot)
			if err != nil {
				return err
			}
			result, err := uc.ValidateReceipt(cmd.Context(), receiptID, poID)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Error != "" {
				return errors.New(result.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storeRoot, "store", "", "Document store directory (defaults to store.root)")
	cmd.Flags().StringVar(&receiptID, "receipt", "", "Receipt id")
	cmd.Flags().StringVar(&poID, "po", "", "Purchase order id")
	_ = cmd.MarkFlagRequired("receipt")
	_ = cmd.MarkFlagRequired("po")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var storeRoot, pairsPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Validate many receipt/purchase order pairs listed in a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := os.Open(pairsPath)
			if err != nil {
				return fmt.Errorf("failed to open pairs file %s: %w", pairsPath, err)
			}
			defer file.Close()

			pairs, err := gateway.ReadValidationPairs(file)
			if err != nil {
				return err
			}
			if concurrency > 0 {
				a.cfg.Batch.Concurrency = concurrency
			}
			uc, err := a.useCase(storeRoot)
			if err != nil {
				return err
			}

			results, err := uc.ValidateBatch(cmd.Context(), pairs)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			zerolog.Ctx(cmd.Context()).Info().
				Int("pairs", len(pairs)).
				Int("failed", failed).
				Msg("batch finished")
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&storeRoot, "store", "", "Document store directory (defaults to store.root)")
	cmd.Flags().StringVar(&pairsPath, "pairs", "", "CSV file of receipt_id,po_id rows")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Pairs validated at once (defaults to batch.concurrency)")
	_ = cmd.MarkFlagRequired("pairs")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			uc, err := a.useCase("")
			if err != nil {
				return err
			}

			api := server.NewWebAPI(a.logger, server.Config{
				Addr:            a.cfg.Server.Addr,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				Dependencies: server.Dependencies{
					Validator: uc,
					Engine:    eng,
				},
			})
			return api.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before the config")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
