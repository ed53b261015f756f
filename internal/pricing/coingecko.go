package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CoinGecko docs: https://docs.coingecko.com/
// Endpoint used: /simple/price?ids=<id,...>&vs_currencies=usd&include_24hr_change=true
// Auth header: "x-cg-pro-api-key: <KEY>" (works for free & pro keys)

const defaultUserAgent = "Mozilla/5.0 (compatible; cryptostore/1.0)"

type CoinGecko struct {
	baseURL   string
	apiKey    string // optional
	userAgent string
	client    *http.Client
}

// cgResp maps provider id -> {"usd": price, "usd_24h_change": pct}.
type cgResp map[string]map[string]float64

func NewCoinGecko(baseURL, apiKey string, timeout time.Duration) *CoinGecko {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &CoinGecko{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: defaultUserAgent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

func (c *CoinGecko) Name() string { return "coingecko" }

// FetchQuotes requests price and 24h change for all ids in one batched
// call. IDs absent from the response are simply missing from the result;
// any transport, HTTP, or decode failure returns an error and no quotes.
func (c *CoinGecko) FetchQuotes(ctx context.Context, ids []string) (map[string]Quote, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")

	u := fmt.Sprintf("%s/simple/price?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("coingecko: rate limited (%d)", resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("coingecko: http %d", resp.StatusCode)
	}

	var data cgResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("coingecko: decode: %w", err)
	}

	quotes := make(map[string]Quote, len(data))
	for _, id := range ids {
		m, ok := data[id]
		if !ok {
			continue
		}
		price, ok := m["usd"]
		if !ok {
			continue
		}
		quotes[id] = Quote{
			PriceUSD:  price,
			Change24h: math.Round(m["usd_24h_change"]*100) / 100,
		}
	}
	return quotes, nil
}
