package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

type balance struct {
	Account string  `json:"account"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := signature.LoadKey(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	accountID := database.PublicKeyFromPrivate(privateKey).AccountID()
	fmt.Println("For Account:", accountID)

	bal, err := queryBalance(resty.New(), accountID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(bal)
}

func queryBalance(client *resty.Client, accountID database.AccountID) (float64, error) {
	var bals balances

	resp, err := client.R().
		SetResult(&bals).
		Get(fmt.Sprintf("%s/v1/balances/list/%s", url, accountID))
	if err != nil {
		return 0, err
	}

	if resp.IsError() {
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(bals.Balances) == 0 {
		return 0, nil
	}

	return bals.Balances[0].Balance, nil
}
