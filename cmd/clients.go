package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/albinchristo04/streameast/api"
	"github.com/albinchristo04/streameast/auth"
	"github.com/albinchristo04/streameast/embed"
	"github.com/albinchristo04/streameast/key"
	"github.com/albinchristo04/streameast/network"
	"github.com/albinchristo04/streameast/where"
)

// newNetwork assembles the shared HTTP session from configuration. A missing
// keyring token simply means unauthenticated requests.
func newNetwork() *network.Client {
	token, _ := auth.GetToken()

	return network.New(network.Options{
		Timeout:       time.Duration(viper.GetFloat64(key.ScanTimeout) * float64(time.Second)),
		Retries:       viper.GetInt(key.ScanRetries),
		BackoffFactor: viper.GetFloat64(key.ScanBackoff),
		MaxBodyBytes:  viper.GetInt64(key.ScanMaxBodyBytes),
		BearerToken:   token,
		SpoofTLS:      viper.GetBool(key.NetworkTLSSpoof),
	})
}

func newAPI(net *network.Client) *api.Client {
	return api.NewClient(net, viper.GetString(key.APIBase))
}

func newResolver(net *network.Client) *embed.Resolver {
	return embed.NewResolver(net, viper.GetString(key.APIEmbedHost), viper.GetString(key.APIReferer))
}

// reportPath resolves the scan report location, falling back to the default
// next to the working directory.
func reportPath() string {
	if p := viper.GetString(key.OutputPath); p != "" {
		return p
	}
	return where.Report()
}

func rateDelay() time.Duration {
	return time.Duration(viper.GetFloat64(key.ScanRateDelay) * float64(time.Second))
}

func printJSON(document any) error {
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}
