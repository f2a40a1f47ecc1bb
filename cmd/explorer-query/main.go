package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/config"
	"github.com/Amund211/ethwalletbot/internal/domain"
)

// Query the explorer for one address and print the raw responses.
//
// Usage: explorer-query <address> [transactions|balance]
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	if len(os.Args) < 2 || os.Args[1] == "" {
		log.Fatal("No address provided")
	}
	address := os.Args[1]

	action := "both"
	if len(os.Args) >= 3 {
		action = os.Args[2]
	}
	switch action {
	case "both", "transactions", "balance":
	default:
		log.Fatalf("Unknown action %q, expected transactions or balance", action)
	}

	apiKey := os.Getenv("ETHERSCAN_API_KEY")
	if apiKey == "" {
		log.Fatal("No Etherscan API key provided")
	}

	// Reuse the bot's parsing of the explorer settings
	if os.Getenv("ETHWALLETBOT_ENVIRONMENT") == "" {
		if err := os.Setenv("ETHWALLETBOT_ENVIRONMENT", "development"); err != nil {
			log.Fatalf("Failed to set environment: %v", err)
		}
	}
	conf, err := config.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	etherscan, err := explorer.NewEtherscan(httpClient, conf.EtherscanBaseURL(), conf.EtherscanChainID(), apiKey, time.Now, time.After)
	if err != nil {
		log.Fatalf("Failed to create explorer client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if action == "both" || action == "transactions" {
		response, err := etherscan.FetchTransactions(ctx, address)
		if err != nil {
			log.Fatalf("Failed to fetch transactions: %v", err)
		}
		printResponse("transactions", response)
	}

	if action == "both" || action == "balance" {
		response, err := etherscan.FetchBalance(ctx, address)
		if err != nil {
			log.Fatalf("Failed to fetch balance: %v", err)
		}
		printResponse("balance", response)

		if response.OK() {
			printEther(address, response)
		}
	}
}

func printEther(address string, response explorer.Response) {
	var raw string
	if err := json.Unmarshal(response.Result, &raw); err != nil {
		fmt.Printf("balance: could not decode result: %v\n", err)
		return
	}
	wei, err := domain.ParseWei(raw)
	if err != nil {
		fmt.Printf("balance: %v\n", err)
		return
	}
	balance := domain.Balance{Address: address, Wei: wei}
	fmt.Printf("balance: %s ETH\n", balance.EtherString())
}

func printResponse(name string, response explorer.Response) {
	var result bytes.Buffer
	if err := json.Indent(&result, response.Result, "", "  "); err != nil {
		result.Reset()
		result.Write(response.Result)
	}
	fmt.Printf("%s: status=%s message=%q\n%s\n", name, response.Status, response.Message, result.String())
}
