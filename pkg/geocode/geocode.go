// Package geocode resolves a location token through the Mapbox forward
// geocoder and gates submissions on the administrative region of the best
// match.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrNoFeature covers everything the provider did not answer usefully:
	// transport failures, empty feature lists, missing properties.
	ErrNoFeature = errors.New("Oops! Something went wrong.")

	// ErrInvalidDirection means the feature resolved but carries no
	// administrative context to gate on.
	ErrInvalidDirection = errors.New("the direction is not valid.")
)

// RegionError reports a feature whose region does not match the allowed one.
type RegionError struct {
	Region string
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("the direction is not inside %s.", e.Region)
}

// Feature is the best-match result of a forward geocode.
type Feature struct {
	MapboxID string
	Region   string
	Context  json.RawMessage
}

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type forwardResponse struct {
	Features []struct {
		Properties struct {
			MapboxID string          `json:"mapbox_id"`
			Context  json.RawMessage `json:"context"`
		} `json:"properties"`
	} `json:"features"`
}

type featureContext struct {
	Region struct {
		Name string `json:"name"`
	} `json:"region"`
}

// Forward resolves a geocode token or free-text query to its best-match
// feature.
func (c *Client) Forward(ctx context.Context, query string) (*Feature, error) {
	endpoint := fmt.Sprintf("%s/search/geocode/v6/forward?q=%s&proximity=ip&access_token=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFeature, err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFeature, err)
	}
	defer res.Body.Close()

	var data forwardResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFeature, err)
	}

	if len(data.Features) == 0 {
		return nil, ErrNoFeature
	}

	props := data.Features[0].Properties
	if len(props.Context) == 0 {
		return nil, ErrInvalidDirection
	}

	var fc featureContext
	if err := json.Unmarshal(props.Context, &fc); err != nil || fc.Region.Name == "" {
		return nil, ErrInvalidDirection
	}

	return &Feature{
		MapboxID: props.MapboxID,
		Region:   fc.Region.Name,
		Context:  props.Context,
	}, nil
}

// Forwarder is the provider surface the gate needs.
type Forwarder interface {
	Forward(ctx context.Context, query string) (*Feature, error)
}

// Gate accepts a location only when its region name exactly equals the
// allowed region. No normalization, no fuzzy matching.
type Gate struct {
	client Forwarder
	region string
}

func NewGate(client Forwarder, region string) *Gate {
	return &Gate{client: client, region: region}
}

func (g *Gate) Check(ctx context.Context, geoCode string) (*Feature, error) {
	feature, err := g.client.Forward(ctx, geoCode)
	if err != nil {
		return nil, err
	}

	if feature.Region != g.region {
		return nil, &RegionError{Region: g.region}
	}

	return feature, nil
}
