package bitaps

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/sony/gobreaker"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/circuitbreaker"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/httputil"
	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
)

const (
	providerName = "bitaps"

	defaultRequestsPerSecond = 3
)

type bitaps struct {
	apiURL      string
	network     string
	chainParams *chaincfg.Params
	client      *httputil.Client
	cb          *gobreaker.CircuitBreaker
}

// NewService returns a new bitaps client as a provider.Service interface.
// The network name selects the chain parameters used to decode raw
// transactions and address scripts.
func NewService(apiURL, network string) (provider.Service, error) {
	chainParams, err := chainParamsForNetwork(network)
	if err != nil {
		return nil, err
	}

	service := &bitaps{
		apiURL:      apiURL,
		network:     network,
		chainParams: chainParams,
		client:      httputil.NewClient(defaultRequestsPerSecond),
		cb:          circuitbreaker.NewCircuitBreaker(providerName),
	}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (b *bitaps) Name() string {
	return providerName
}

func (b *bitaps) healthCheck() error {
	_, err := b.GetChainHeight()
	return err
}

// composeRequest builds a bitaps API url in the form
// {base}/{type}/{category}[/{command}][/{data}][?query].
func (b *bitaps) composeRequest(
	reqType, category, command, data string, query url.Values,
) string {
	urlPath := reqType + "/" + category
	if command != "" {
		urlPath += "/" + command
	}
	if data != "" {
		urlPath += "/" + data
	}
	composed := fmt.Sprintf("%s/%s", b.apiURL, urlPath)
	if len(query) > 0 {
		composed += "?" + query.Encode()
	}
	return composed
}

func (b *bitaps) getRequest(url string) (string, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		status, body, err := b.client.NewHTTPRequest("GET", url, "", nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, errors.New(body)
		}
		return body, nil
	})
	if err != nil {
		return "", err
	}
	return resp.(string), nil
}

func chainParamsForNetwork(network string) (*chaincfg.Params, error) {
	switch network {
	case "bitcoin", "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %s", network)
	}
}
