package wyvern

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Network represents an Ethereum network the marketplace is deployed on
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkRinkeby Network = "rinkeby"
)

// SupportedNetworks lists all supported networks
var SupportedNetworks = []Network{NetworkMainnet, NetworkRinkeby}

const (
	DefaultQueryTimeout   = 10 * time.Second
	DefaultPriceBacktrack = 30 * time.Second
)

// ContractAddresses holds contract addresses and endpoints for each network
type ContractAddresses struct {
	Exchange           string
	ProxyRegistry      string
	TokenTransferProxy string
	FeeRecipient       string
	APIHost            string
	StreamEndpoint     string
}

// DefaultContractAddresses maps networks to their contract addresses
var DefaultContractAddresses = map[Network]ContractAddresses{
	NetworkMainnet: {
		Exchange:           "0x7f268357a8c2552623316e2562d90e642bb538e5",
		ProxyRegistry:      "0xa5409ec958c83c3f309868babaca7c86dcb077c1",
		TokenTransferProxy: "0xe5c783ee536cf5e63e792988335c4255169be4e1",
		FeeRecipient:       "0x5b3256965e7c3cf26e11fcaf296dfc8807c01073",
		APIHost:            "https://api.opensea.io",
		StreamEndpoint:     "wss://stream.openseabeta.com/socket/websocket",
	},
	NetworkRinkeby: {
		Exchange:           "0xdd54d660178b28f6033a953b0e55073cfa7e3744",
		ProxyRegistry:      "0xf57b2c51ded3a29e6891aba85459d600256cf317",
		TokenTransferProxy: "0xcdc9188485316bf6fa416d02b4f680227c50b89e",
		FeeRecipient:       "0x5b3256965e7c3cf26e11fcaf296dfc8807c01073",
		APIHost:            "https://testnets-api.opensea.io",
		StreamEndpoint:     "wss://testnets-stream.openseabeta.com/socket/websocket",
	},
}

// envConfig is the WYVERN_* environment layout
type envConfig struct {
	Network            string        `env:"NETWORK" envDefault:"mainnet"`
	APIHost            string        `env:"API_HOST"`
	APIKey             string        `env:"API_KEY"`
	RPCURL             string        `env:"RPC_URL"`
	StreamEndpoint     string        `env:"STREAM_ENDPOINT"`
	Exchange           string        `env:"EXCHANGE_ADDRESS"`
	ProxyRegistry      string        `env:"PROXY_REGISTRY_ADDRESS"`
	TokenTransferProxy string        `env:"TOKEN_TRANSFER_PROXY_ADDRESS"`
	FeeRecipient       string        `env:"FEE_RECIPIENT"`
	QueryTimeout       time.Duration `env:"QUERY_TIMEOUT" envDefault:"10s"`
	PriceBacktrack     time.Duration `env:"PRICE_BACKTRACK" envDefault:"30s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig builds a ClientConfig from WYVERN_* environment variables.
// When envPath is set that file is loaded first; otherwise a .env in the
// working directory is loaded if present.
func LoadConfig(envPath string) (*ClientConfig, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	var raw envConfig
	if err := env.ParseWithOptions(&raw, env.Options{Prefix: "WYVERN_"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := &ClientConfig{
		Network:                Network(raw.Network),
		Host:                   raw.APIHost,
		APIKey:                 raw.APIKey,
		RPCURL:                 raw.RPCURL,
		StreamEndpoint:         raw.StreamEndpoint,
		ExchangeAddr:           raw.Exchange,
		ProxyRegistryAddr:      raw.ProxyRegistry,
		TokenTransferProxyAddr: raw.TokenTransferProxy,
		FeeRecipient:           raw.FeeRecipient,
		QueryTimeout:           raw.QueryTimeout,
		PriceBacktrack:         raw.PriceBacktrack,
		LogLevel:               raw.LogLevel,
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults validates the network and fills unset fields from its defaults
func (c *ClientConfig) applyDefaults() error {
	if c.Network == "" {
		c.Network = NetworkMainnet
	}
	defaults, ok := DefaultContractAddresses[c.Network]
	if !ok {
		return &InvalidParamError{
			Message: fmt.Sprintf("network must be one of %v, got %q", SupportedNetworks, c.Network),
		}
	}

	if c.Host == "" {
		c.Host = defaults.APIHost
	}
	if c.StreamEndpoint == "" {
		c.StreamEndpoint = defaults.StreamEndpoint
	}
	if c.ExchangeAddr == "" {
		c.ExchangeAddr = defaults.Exchange
	}
	if c.ProxyRegistryAddr == "" {
		c.ProxyRegistryAddr = defaults.ProxyRegistry
	}
	if c.TokenTransferProxyAddr == "" {
		c.TokenTransferProxyAddr = defaults.TokenTransferProxy
	}
	if c.FeeRecipient == "" {
		c.FeeRecipient = defaults.FeeRecipient
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = DefaultQueryTimeout
	}
	if c.PriceBacktrack == 0 {
		c.PriceBacktrack = DefaultPriceBacktrack
	}

	for name, addr := range map[string]string{
		"exchange":             c.ExchangeAddr,
		"proxy registry":       c.ProxyRegistryAddr,
		"token transfer proxy": c.TokenTransferProxyAddr,
		"fee recipient":        c.FeeRecipient,
	} {
		if _, err := ParseAddress(addr); err != nil {
			return &InvalidParamError{Message: fmt.Sprintf("invalid %s address: %q", name, addr)}
		}
	}
	return nil
}
