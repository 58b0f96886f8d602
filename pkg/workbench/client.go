package workbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultURL = "https://cloud.tenable.com"

	assetsPath = "/workbenches/assets"
	userAgent  = "navi"
)

var ErrMissingKeys = errors.New("missing access key or secret key")

type Client struct {
	Cli *http.Client

	URL       string
	AccessKey string
	SecretKey string
}

// Filter is a workbench filter triple, e.g. ("sources", "set-hasonly", "AWS")
type Filter struct {
	Field    string
	Operator string
	Value    string
}

type Source struct {
	Name      string
	FirstSeen string
	LastSeen  string
}

type Asset struct {
	ID      string
	IPv4    []string
	FQDN    []string
	Sources []Source
}

// New returns a workbench client. A zero timeout means requests never time out.
func New(baseURL, accessKey, secretKey string, timeout time.Duration) *Client {
	tr := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		IdleConnTimeout: 60 * time.Second,
	}

	if baseURL == "" {
		baseURL = DefaultURL
	}

	return &Client{
		Cli: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
		URL:       strings.TrimRight(baseURL, "/"),
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}

// Assets searches the workbench for assets matching every filter
func (c *Client) Assets(ctx context.Context, filters ...Filter) ([]Asset, error) {
	if c.AccessKey == "" || c.SecretKey == "" {
		return nil, ErrMissingKeys
	}

	reqURL := c.URL + assetsPath + "?" + encodeFilters(filters).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-ApiKeys", fmt.Sprintf("accessKey=%s;secretKey=%s", c.AccessKey, c.SecretKey))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	log.Debugf("GET %s", reqURL)

	res, err := c.Cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request url %s: %w", reqURL, err)
	}

	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	log.Debugf("GET %s: %s", reqURL, res.Status)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("workbench request failed, status: %s, body: %s",
			res.Status, strings.TrimSpace(string(resBody)))
	}

	if !gjson.ValidBytes(resBody) {
		return nil, errors.New("workbench response is not valid json")
	}

	return parseAssets(resBody), nil
}

func encodeFilters(filters []Filter) url.Values {
	q := url.Values{}
	for i, f := range filters {
		n := strconv.Itoa(i)
		q.Set("filter."+n+".filter", f.Field)
		q.Set("filter."+n+".quality", f.Operator)
		q.Set("filter."+n+".value", f.Value)
	}
	q.Set("filter.search_type", "and")
	q.Set("all_fields", "full")

	return q
}

func parseAssets(body []byte) []Asset {
	assets := []Asset{}

	gjson.GetBytes(body, "assets").ForEach(func(_, a gjson.Result) bool {
		asset := Asset{
			ID:   a.Get("id").String(),
			IPv4: stringList(a.Get("ipv4")),
			FQDN: stringList(a.Get("fqdn")),
		}

		a.Get("sources").ForEach(func(_, s gjson.Result) bool {
			asset.Sources = append(asset.Sources, Source{
				Name:      s.Get("name").String(),
				FirstSeen: s.Get("first_seen").String(),
				LastSeen:  s.Get("last_seen").String(),
			})
			return true
		})

		assets = append(assets, asset)
		return true
	})

	return assets
}

func stringList(r gjson.Result) []string {
	list := []string{}
	for _, v := range r.Array() {
		list = append(list, v.String())
	}
	return list
}
