package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"poolCore/internal/config"
	"poolCore/internal/pool"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuote(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	amountIn, err := parseAmountFlag("amount-in", cfg.AmountIn)
	if err != nil {
		return err
	}
	reserveIn, err := parseAmountFlag("reserve-in", cfg.ReserveIn)
	if err != nil {
		return err
	}
	reserveOut, err := parseAmountFlag("reserve-out", cfg.ReserveOut)
	if err != nil {
		return err
	}

	amountOut, err := pool.AmountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), amountOut.String())
	return nil
}

func parseAmountFlag(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid amount %q", name, value)
	}
	return parsed, nil
}
