package cmd

import (
	"crypto/ed25519"
	"fmt"
	"log"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	url    string
	to     string
	amount float64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := signature.LoadKey(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		signedTx, err := sendWithDetails(resty.New(), privateKey)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(signedTx.ID)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the amount.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

func sendWithDetails(client *resty.Client, privateKey ed25519.PrivateKey) (database.SignedTx, error) {
	toID, err := database.ToAccountID(to)
	if err != nil {
		return database.SignedTx{}, fmt.Errorf("to account: %w", err)
	}

	receiver, err := toID.PublicKey()
	if err != nil {
		return database.SignedTx{}, fmt.Errorf("to account: %w", err)
	}

	tx := database.NewTx(amount, receiver, database.PublicKeyFromPrivate(privateKey))

	signedTx, err := tx.Sign(privateKey)
	if err != nil {
		return database.SignedTx{}, err
	}

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(signedTx).
		Post(fmt.Sprintf("%s/v1/tx/submit", url))
	if err != nil {
		return database.SignedTx{}, err
	}

	if resp.IsError() {
		return database.SignedTx{}, fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
	}

	return signedTx, nil
}
