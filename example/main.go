// Command example generates atomicMatch_ calldata for buying or selling an asset
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	wyvern "github.com/kaifufi/wyvern-calldata-go"
)

func main() {
	tokenAddress := flag.String("tokenAddress", "", "asset contract address")
	tokenID := flag.String("tokenId", "", "asset token id")
	account := flag.String("accountAddress", "", "address that will send the transaction")
	envPath := flag.String("env", "", "path to a .env file with WYVERN_* settings")
	out := flag.String("out", "calldata.txt", "file the hex calldata is written to")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	if *tokenAddress == "" || *tokenID == "" || *account == "" {
		flag.Usage()
		os.Exit(2)
	}

	config, err := wyvern.LoadConfig(*envPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := wyvern.NewClient(*config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := client.GenerateCalldata(ctx, *tokenAddress, *tokenID, *account)
	switch {
	case errors.Is(err, wyvern.ErrNoOrders):
		log.Fatalf("No sell order for %s #%s", *tokenAddress, *tokenID)
	case errors.Is(err, wyvern.ErrOrderValidation):
		log.Fatalf("Order rejected: %v", err)
	case err != nil:
		log.Fatalf("Failed to generate calldata: %v", err)
	}

	if err := os.WriteFile(*out, []byte(result.Calldata), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	fmt.Printf("Match %s (%s)\n", result.ID, result.Role)
	fmt.Printf("To:    %s\n", result.To.Hex())
	if result.Value != nil {
		fmt.Printf("Value: %s wei\n", result.Value.String())
	}
	fmt.Printf("Calldata written to %s (%d bytes)\n", *out, (len(result.Calldata)-2)/2)
}
