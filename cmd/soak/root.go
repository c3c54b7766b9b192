package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tezrry/baremetal/internal/soak"
)

const (
	envPrefix = "SOAK"

	keyConfig     = "config"
	keyContenders = "contenders"
	keyRounds     = "rounds"
	keyPoolSize   = "pool-size"
	keyIterations = "iterations"
	keyPreempt    = "preempt-percent"
	keyNested     = "nested"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "soak",
		Short:         "Stress the bare-metal primitives on the host",
		Long:          "soak races singleton takes across goroutines and storms shared cells\nwith simulated interrupts, failing if any ownership or borrow invariant breaks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd)
		},
	}

	defaults := soak.DefaultConfig()
	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "config file (yaml, toml or json)")
	flags.Int(keyContenders, defaults.Contenders, "goroutines racing on Take per round")
	flags.Int(keyRounds, defaults.Rounds, "take race rounds")
	flags.Int(keyPoolSize, defaults.PoolSize, "worker goroutines for the take race")
	flags.Int(keyIterations, defaults.Iterations, "main loop iterations of the borrow storm")
	flags.Uint32(keyPreempt, defaults.PreemptPercent, "chance in percent of a timer interrupt per preemption point")
	flags.Bool(keyNested, defaults.NestedInterrupts, "let interrupts preempt running handlers")

	root.AddCommand(newTakeCmd(v))
	root.AddCommand(newBorrowCmd(v))
	return root
}

// loadConfig layers flags, SOAK_* environment variables and an optional
// config file into v.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("config file %s not found", path)
			}
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func options(v *viper.Viper) []soak.ConfigFunc {
	return []soak.ConfigFunc{
		soak.WithContenders(v.GetInt(keyContenders)),
		soak.WithRounds(v.GetInt(keyRounds)),
		soak.WithPoolSize(v.GetInt(keyPoolSize)),
		soak.WithIterations(v.GetInt(keyIterations)),
		soak.WithPreemptPercent(v.GetUint32(keyPreempt)),
		soak.WithNestedInterrupts(v.GetBool(keyNested)),
	}
}

func newTakeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "take",
		Short: "Race goroutines on singleton Take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := soak.TakeRace(cmd.Context(), options(v)...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rounds=%d contenders=%d winners=%d refused=%d steals=%d\n",
				report.Rounds, report.Contenders, report.Winners, report.Refused, report.Steals)
			return nil
		},
	}
}

func newBorrowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow",
		Short: "Storm a shared cell with simulated interrupts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := soak.BorrowStorm(options(v)...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iterations=%d timer=%d uart=%d conflicts=%d ticks=%d bytes=%d\n",
				report.Iterations, report.TimerIRQs, report.UARTIRQs, report.Conflicts,
				report.Ledger.Ticks, report.Ledger.Bytes)
			fmt.Fprintln(out, report.Registers)
			return nil
		},
	}
}
