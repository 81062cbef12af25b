package main

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/contract"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/NethermindEth/starkclient/waiter"
	"github.com/spf13/cobra"
)

const (
	blockF    = "block"
	fullF     = "full"
	deadlineF = "deadline"

	defaultBlock    = "latest"
	defaultDeadline = waiter.DefaultDeadline

	blockUsage    = "Block to read at: latest, pending, a number or a 0x hash."
	fullUsage     = "Include full transactions instead of hashes."
	deadlineUsage = "How long to wait before giving up."
)

func feltArg(s string) (*felt.Felt, error) {
	f, err := felt.FromHex(s)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", s, err)
	}
	return f, nil
}

func blockFlag(cmd *cobra.Command) (rpc.BlockID, error) {
	s, err := cmd.Flags().GetString(blockF)
	if err != nil {
		return rpc.BlockID{}, err
	}
	return rpc.ParseBlockID(s)
}

type chainInfo struct {
	ChainID  *felt.Felt `json:"chain_id"`
	Network  string     `json:"network,omitempty"`
	Expected bool       `json:"expected_network"`
}

func (c *cli) chainIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain-id",
		Short: "Print the chain id of the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chainID, err := c.provider().ChainID(cmd.Context())
			if err != nil {
				return err
			}
			info := chainInfo{ChainID: chainID}
			if n, ok := utils.NetworkFromChainID(chainID); ok {
				info.Network = n.String()
				info.Expected = n == c.cfg.Network
			}
			if !info.Expected {
				c.log.Warnw("Node serves another network", "expected", c.cfg.Network, "chainID", chainID)
			}
			return c.print(cmd.OutOrStdout(), info)
		},
	}
}

func (c *cli) blockNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block-number",
		Short: "Print the number of the latest block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.provider().BlockNumber(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), n)
		},
	}
}

func (c *cli) blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block [id]",
		Short: "Print a block",
		Long:  `The block id is latest, pending, a block number or a 0x-prefixed hash. It defaults to latest.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := rpc.BlockLatest()
			if len(args) == 1 {
				var err error
				if id, err = rpc.ParseBlockID(args[0]); err != nil {
					return err
				}
			}
			full, err := cmd.Flags().GetBool(fullF)
			if err != nil {
				return err
			}

			var block any
			if full {
				block, err = c.provider().BlockWithTxs(cmd.Context(), id)
			} else {
				block, err = c.provider().BlockWithTxHashes(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), block)
		},
	}
	cmd.Flags().Bool(fullF, false, fullUsage)
	return cmd
}

func (c *cli) txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Print a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := feltArg(args[0])
			if err != nil {
				return err
			}
			tx, err := c.provider().TransactionByHash(cmd.Context(), hash)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), tx)
		},
	}
}

func (c *cli) receiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <hash>",
		Short: "Print the receipt of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := feltArg(args[0])
			if err != nil {
				return err
			}
			receipt, err := c.provider().TransactionReceipt(cmd.Context(), hash)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), receipt)
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <hash>",
		Short: "Print the finality and execution status of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := feltArg(args[0])
			if err != nil {
				return err
			}
			status, err := c.provider().TransactionStatus(cmd.Context(), hash)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), status)
		},
	}
}

func (c *cli) nonceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce <address>",
		Short: "Print the nonce of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := feltArg(args[0])
			if err != nil {
				return err
			}
			id, err := blockFlag(cmd)
			if err != nil {
				return err
			}
			nonce, err := c.provider().Nonce(cmd.Context(), id, addr)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), nonce)
		},
	}
	cmd.Flags().String(blockF, defaultBlock, blockUsage)
	return cmd
}

func (c *cli) classHashAtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class-hash-at <address>",
		Short: "Print the class hash of a deployed contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := feltArg(args[0])
			if err != nil {
				return err
			}
			id, err := blockFlag(cmd)
			if err != nil {
				return err
			}
			classHash, err := c.provider().ClassHashAt(cmd.Context(), id, addr)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), classHash)
		},
	}
	cmd.Flags().String(blockF, defaultBlock, blockUsage)
	return cmd
}

func (c *cli) callCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <address> <function> [args...]",
		Short: "Call a view function through the contract ABI",
		Long: `The ABI is read from the class of the contract. Arguments are hex or decimal
strings, one per function input.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := feltArg(args[0])
			if err != nil {
				return err
			}
			id, err := blockFlag(cmd)
			if err != nil {
				return err
			}
			ct, err := contract.At(cmd.Context(), c.provider(), addr, nil)
			if err != nil {
				return err
			}
			out, err := ct.AtBlock(id).Call(cmd.Context(), args[1], stringArgs(args[2:])...)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), printable(out))
		},
	}
	cmd.Flags().String(blockF, "pending", blockUsage)
	return cmd
}

func stringArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

// printable turns decoded ABI values into JSON friendly ones. Integers wider than a float
// mantissa are printed as decimal strings.
func printable(v any) any {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = printable(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = printable(e)
		}
		return out
	case abi.EnumValue:
		return map[string]any{x.Variant: printable(x.Value)}
	case abi.Option:
		if !x.Some {
			return nil
		}
		return printable(x.Value)
	}
	return v
}

func (c *cli) waitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait <hash>",
		Short: "Wait until a transaction is accepted, reverted or rejected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := feltArg(args[0])
			if err != nil {
				return err
			}
			deadline, err := cmd.Flags().GetDuration(deadlineF)
			if err != nil {
				return err
			}
			res, err := waiter.Wait(cmd.Context(), c.provider(), hash, waiter.Options{
				Deadline: deadline,
				Logger:   c.log,
			})
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), res.Receipt)
		},
	}
	cmd.Flags().Duration(deadlineF, defaultDeadline, deadlineUsage)
	return cmd
}
