package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/account"
	"github.com/NethermindEth/starkclient/contract"
	"github.com/NethermindEth/starkclient/core/crypto"
	"github.com/NethermindEth/starkclient/core/felt"
	"github.com/NethermindEth/starkclient/engine"
	"github.com/NethermindEth/starkclient/typeddata"
	"github.com/spf13/cobra"
)

const (
	accountF    = "account"
	privateKeyF = "private-key"
	cairoF      = "cairo"
	txVersionF  = "tx-version"
	waitF       = "wait"
	revisionF   = "revision"
	mnemonicF   = "mnemonic"
	passphraseF = "passphrase"
	indexF      = "index"
	flavorF     = "flavor"

	defaultCairo     = 1
	defaultTxVersion = 3
	defaultRevision  = 1
	defaultFlavor    = "argent"

	accountUsage    = "Address of the signing account."
	privateKeyUsage = "Stark private key of the account. Prefer the STARKCLI_PRIVATE_KEY environment variable."
	cairoUsage      = "Cairo version of the account contract, which selects the multicall layout."
	txVersionUsage  = "Transaction version to send. Options: 1, 3."
	waitUsage       = "Wait for the transaction to settle and print its receipt."
	revisionUsage   = "Typed data revision. Options: 0, 1."
	mnemonicUsage   = "BIP-39 mnemonic. Prefer the STARKCLI_MNEMONIC environment variable."
	passphraseUsage = "Optional BIP-39 passphrase."
	indexUsage      = "Index of the account in the wallet."
	flavorUsage     = "Wallet derivation scheme. Options: argent, braavos."
)

// secret reads a flag that may also come from the environment. Flags are bound to the
// command's viper instance at load time.
func (c *cli) secret(name string) (string, error) {
	s := strings.TrimSpace(c.v.GetString(name))
	if s == "" {
		return "", fmt.Errorf("--%s or %s_%s is required", name, envPrefix,
			strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
	}
	return s, nil
}

func (c *cli) account(cmd *cobra.Command) (*account.Account, error) {
	addrArg, err := cmd.Flags().GetString(accountF)
	if err != nil {
		return nil, err
	}
	addr, err := feltArg(addrArg)
	if err != nil {
		return nil, err
	}
	keyArg, err := c.secret(privateKeyF)
	if err != nil {
		return nil, err
	}
	keyFelt, err := felt.FromHex(keyArg)
	if err != nil {
		return nil, errors.New("private key must be a 0x-prefixed hex string")
	}
	key, err := crypto.NewPrivateKeyFromFelt(keyFelt)
	if err != nil {
		return nil, err
	}
	cairo, err := cmd.Flags().GetInt(cairoF)
	if err != nil {
		return nil, err
	}
	version, err := cmd.Flags().GetUint8(txVersionF)
	if err != nil {
		return nil, err
	}

	p := c.provider()
	chainID, err := p.ChainID(cmd.Context())
	if err != nil {
		return nil, err
	}
	return account.New(p, addr, engine.NewKeySigner(key), chainID,
		account.WithCairoVersion(cairo),
		account.WithTxVersion(account.TxVersion(version)),
		account.WithFeeMultiplier(c.cfg.FeeMultiplier),
		account.WithLogger(c.log),
	), nil
}

func (c *cli) invokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <address> <function> [args...]",
		Short: "Send an invoke transaction calling one contract function",
		Long: `The calldata is encoded with the contract ABI. The fee is estimated and scaled with
--fee-multiplier before the transaction is signed and sent.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := feltArg(args[0])
			if err != nil {
				return err
			}
			acc, err := c.account(cmd)
			if err != nil {
				return err
			}
			ct, err := contract.At(cmd.Context(), acc.Provider(), addr, nil)
			if err != nil {
				return err
			}
			res, err := ct.Invoke(cmd.Context(), acc, args[1], stringArgs(args[2:])...)
			if err != nil {
				return err
			}
			c.log.Infow("Sent invoke", "hash", res.TransactionHash, "contract", addr, "function", args[1])

			wait, err := cmd.Flags().GetBool(waitF)
			if err != nil {
				return err
			}
			if !wait {
				return c.print(cmd.OutOrStdout(), res)
			}
			settled, err := acc.Wait(cmd.Context(), res.TransactionHash)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), settled.Receipt)
		},
	}
	cmd.Flags().String(accountF, "", accountUsage)
	cmd.Flags().String(privateKeyF, "", privateKeyUsage)
	cmd.Flags().Int(cairoF, defaultCairo, cairoUsage)
	cmd.Flags().Uint8(txVersionF, defaultTxVersion, txVersionUsage)
	cmd.Flags().Bool(waitF, false, waitUsage)
	_ = cmd.MarkFlagRequired(accountF)
	return cmd
}

type selectorOutput struct {
	Name     string     `json:"name"`
	Selector *felt.Felt `json:"selector"`
}

func (c *cli) selectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <name>...",
		Short: "Print the entry point selector of function or event names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]selectorOutput, len(args))
			for i, name := range args {
				out[i] = selectorOutput{Name: name, Selector: abi.SelectorFromName(name)}
			}
			if len(out) == 1 {
				return c.print(cmd.OutOrStdout(), out[0])
			}
			return c.print(cmd.OutOrStdout(), out)
		},
	}
}

func (c *cli) hashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Compute off-chain hashes",
	}

	typedData := &cobra.Command{
		Use:   "typed-data <file>",
		Short: "Print the message hash of a typed data document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			revision, err := cmd.Flags().GetUint8(revisionF)
			if err != nil {
				return err
			}
			if revision > uint8(typeddata.V1) {
				return fmt.Errorf("unknown revision %d", revision)
			}
			td, err := typeddata.Parse(typeddata.Revision(revision), data)
			if err != nil {
				return err
			}
			addrArg, err := cmd.Flags().GetString(accountF)
			if err != nil {
				return err
			}
			addr, err := feltArg(addrArg)
			if err != nil {
				return err
			}
			h, err := td.MessageHash(addr)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), h)
		},
	}
	typedData.Flags().String(accountF, "", "Address of the account the message is signed for.")
	typedData.Flags().Uint8(revisionF, defaultRevision, revisionUsage)
	_ = typedData.MarkFlagRequired(accountF)

	cmd.AddCommand(typedData)
	return cmd
}

type keyOutput struct {
	PrivateKey *felt.Felt `json:"private_key"`
	PublicKey  *felt.Felt `json:"public_key"`
}

func parseFlavor(s string) (crypto.Flavor, error) {
	switch strings.ToLower(s) {
	case "argent":
		return crypto.FlavorArgent, nil
	case "braavos":
		return crypto.FlavorBraavos, nil
	}
	return 0, fmt.Errorf("%w: %q", crypto.ErrUnknownFlavor, s)
}

func (c *cli) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Derive Stark keys",
	}

	derive := &cobra.Command{
		Use:   "derive",
		Short: "Derive an account key pair from a mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mnemonic, err := c.secret(mnemonicF)
			if err != nil {
				return err
			}
			flavorArg, err := cmd.Flags().GetString(flavorF)
			if err != nil {
				return err
			}
			flavor, err := parseFlavor(flavorArg)
			if err != nil {
				return err
			}
			index, err := cmd.Flags().GetUint32(indexF)
			if err != nil {
				return err
			}
			key, err := crypto.KeyFromMnemonic(mnemonic, c.v.GetString(passphraseF), index, flavor)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), keyOutput{
				PrivateKey: key.Felt(),
				PublicKey:  key.PublicKey().Felt(),
			})
		},
	}
	derive.Flags().String(mnemonicF, "", mnemonicUsage)
	derive.Flags().String(passphraseF, "", passphraseUsage)
	derive.Flags().Uint32(indexF, 0, indexUsage)
	derive.Flags().String(flavorF, defaultFlavor, flavorUsage)

	cmd.AddCommand(derive)
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow websocket subscriptions",
	}

	heads := &cobra.Command{
		Use:   "heads",
		Short: "Print new block headers until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws, conn, err := c.wsProvider(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			sub, err := ws.SubscribeNewHeads(ctx, nil)
			if err != nil {
				return err
			}
			c.log.Infow("Subscribed to new heads", "id", sub.ID())

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return sub.Unsubscribe(context.WithoutCancel(ctx))
				case head, ok := <-sub.Events():
					if !ok {
						return <-sub.Err()
					}
					if err := c.print(out, head); err != nil {
						return err
					}
				case reorg, ok := <-sub.Reorgs():
					if !ok {
						return <-sub.Err()
					}
					c.log.Warnw("Chain reorganisation", "from", reorg.StartBlockNum, "to", reorg.EndBlockNum)
				}
			}
		},
	}

	cmd.AddCommand(heads)
	return cmd
}
