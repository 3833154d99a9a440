// Command request-signer is the external tool named in spec §4.2: it holds
// an Ed25519 keypair and signs the body of new-configuration/
// rollback-configuration requests before they're POSTed to the agent's
// control HTTP surface. It never talks to the agent itself.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DanielSidhion/nixless-agent/internal/keychain"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "request-signer",
		Short:         "Generate keypairs and sign nixless-agent update requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateKeyCmd())
	root.AddCommand(newPublicKeyCmd())
	root.AddCommand(newSignCmd())

	return root
}

func newGenerateKeyCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "generate-key",
		Short: "Generate a fresh Ed25519 keypair and print it (\"<name>:<base64>\")",
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := keychain.GenerateSigner(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signer.Encode())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "key name to embed in the encoded keypair")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newPublicKeyCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "public-key",
		Short: "Print the public half of an encoded keypair, for distribution to verifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := keychain.ParseSigner(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signer.PublicKeyEncoded())
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "encoded private keypair (\"<name>:<base64>\")")
	cmd.MarkFlagRequired("key")

	return cmd
}

func newSignCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign data read from stdin, printing a base64 Ed25519 signature",
		Long: "Reads the full request body (system_package_id line, package_id lines) from\n" +
			"stdin, trims its trailing newline exactly as the agent's control HTTP surface\n" +
			"verifies it (spec §6), and prints the base64 signature to append as the\n" +
			"request's last line.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := keychain.ParseSigner(key)
			if err != nil {
				return err
			}

			data, err := io.ReadAll(bufio.NewReader(cmd.InOrStdin()))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signer.Sign([]byte(strings.TrimRight(string(data), "\n"))))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "encoded private keypair (\"<name>:<base64>\")")
	cmd.MarkFlagRequired("key")

	return cmd
}
