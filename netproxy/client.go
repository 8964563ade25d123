package netproxy

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/benitogf/jslink/db"
)

// BuildClient is the HTTP Client Factory (spec §4.3): it reads the
// NetworkSettings singleton and builds an *http.Client honoring auto_proxy
// or the explicit http_proxy/https_proxy fields. Base transport tuning
// mirrors ooo.go's defaultClient().
func BuildClient(settings db.NetworkSettings) (*http.Client, error) {
	transport := &http.Transport{
		IdleConnTimeout:       10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
	}

	if settings.AutoProxy {
		transport.Proxy = http.ProxyFromEnvironment
	} else {
		proxyFunc, err := explicitProxyFunc(settings)
		if err != nil {
			return nil, err
		}
		transport.Proxy = proxyFunc
	}

	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}, nil
}

func explicitProxyFunc(settings db.NetworkSettings) (func(*http.Request) (*url.URL, error), error) {
	var httpProxyURL, httpsProxyURL *url.URL
	if settings.HTTPProxy != nil && *settings.HTTPProxy != "" {
		u, err := url.Parse(*settings.HTTPProxy)
		if err != nil {
			return nil, fmt.Errorf("Invalid HTTP proxy: %w", err)
		}
		httpProxyURL = u
	}
	if settings.HTTPSProxy != nil && *settings.HTTPSProxy != "" {
		u, err := url.Parse(*settings.HTTPSProxy)
		if err != nil {
			return nil, fmt.Errorf("Invalid HTTPS proxy: %w", err)
		}
		httpsProxyURL = u
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxyURL != nil {
			return httpsProxyURL, nil
		}
		if req.URL.Scheme == "http" && httpProxyURL != nil {
			return httpProxyURL, nil
		}
		return nil, nil
	}, nil
}

// LoadClient fetches NetworkSettings and builds a client, falling back to
// auto_proxy=true/no explicit proxies when the singleton row is missing
// (spec §9 "Network-settings fallback").
func LoadClient(store *db.DB) (*http.Client, error) {
	settings, err := store.GetNetworkSettings()
	if err != nil {
		settings = db.NetworkSettings{AutoProxy: true}
	}
	return BuildClient(settings)
}
