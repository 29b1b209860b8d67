package clients

import (
	"context"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	hyperliquid "github.com/sonirico/go-hyperliquid"
)

// HyperliquidMainnetURL API endpoint used when no base URL is configured.
const HyperliquidMainnetURL = "https://api.hyperliquid.xyz"

// HyperliquidClient Hyperliquid exchange handle with the account derived from its key.
type HyperliquidClient struct {
	exchange    *hyperliquid.Exchange
	accountAddr string
}

// NewHyperliquidClient derives the account address from privateKeyHex and connects to baseURL.
func NewHyperliquidClient(privateKeyHex string, baseURL string) (*HyperliquidClient, error) {
	if baseURL == "" {
		baseURL = HyperliquidMainnetURL
	}

	privateKey, accountAddr, err := parseAccountKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	// Info and SpotMeta are fetched lazily by the SDK
	ex := hyperliquid.NewExchange(
		context.Background(),
		privateKey,
		baseURL,
		nil,
		"",
		accountAddr,
		nil,
	)

	return &HyperliquidClient{exchange: ex, accountAddr: accountAddr}, nil
}

// NewHyperliquidInfo connects to the public Info API at baseURL. Market data needs no account.
func NewHyperliquidInfo(baseURL string) *hyperliquid.Info {
	if baseURL == "" {
		baseURL = HyperliquidMainnetURL
	}
	return hyperliquid.NewInfo(context.Background(), baseURL, true, nil, nil)
}

func (c *HyperliquidClient) Exchange() *hyperliquid.Exchange { return c.exchange }
func (c *HyperliquidClient) AccountAddress() string          { return c.accountAddr }

func parseAccountKey(privateKeyHex string) (*ecdsa.PrivateKey, string, error) {
	key := strings.TrimPrefix(strings.TrimPrefix(privateKeyHex, "0x"), "0X")

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, "", errors.Wrap(err, "parse hyperliquid private key")
	}

	pubECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, "", errors.New("error casting public key to ECDSA")
	}
	return privateKey, crypto.PubkeyToAddress(*pubECDSA).Hex(), nil
}
