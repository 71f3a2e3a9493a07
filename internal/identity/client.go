package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "fraudguard/pkg/domain-errors"
)

// Client fetches identification events from the device-intelligence API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs an API client with an explicit timeout. A verification
// call that exceeds the timeout surfaces as a VerificationFailed error, never
// an indefinite hang.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// eventResponse mirrors the wire format of the identification event API.
type eventResponse struct {
	Products struct {
		Identification struct {
			Data struct {
				VisitorID  string `json:"visitorId"`
				RequestID  string `json:"requestId"`
				Timestamp  int64  `json:"timestamp"`
				URL        string `json:"url"`
				IP         string `json:"ip"`
				Confidence struct {
					Score float64 `json:"score"`
				} `json:"confidence"`
				Incognito bool `json:"incognito"`
			} `json:"data"`
		} `json:"identification"`
		Botd struct {
			Data struct {
				Bot struct {
					Result string `json:"result"`
				} `json:"bot"`
			} `json:"data"`
		} `json:"botd"`
		VPN struct {
			Data struct {
				Result  bool `json:"result"`
				Methods struct {
					PublicVPN        bool `json:"publicVPN"`
					TimezoneMismatch bool `json:"timezoneMismatch"`
					AuxiliaryMobile  bool `json:"auxiliaryMobile"`
				} `json:"methods"`
				OriginTimezone string `json:"originTimezone"`
			} `json:"data"`
		} `json:"vpn"`
		Tor struct {
			Data struct {
				Result bool `json:"result"`
			} `json:"data"`
		} `json:"tor"`
		Proxy struct {
			Data struct {
				Result bool `json:"result"`
			} `json:"data"`
		} `json:"proxy"`
		Tampering struct {
			Data struct {
				Result bool `json:"result"`
			} `json:"data"`
		} `json:"tampering"`
		IPBlocklist struct {
			Data struct {
				Result bool `json:"result"`
			} `json:"data"`
		} `json:"ipBlocklist"`
		IPInfo struct {
			Data struct {
				V4 *geolocationData `json:"v4"`
				V6 *geolocationData `json:"v6"`
			} `json:"data"`
		} `json:"ipInfo"`
	} `json:"products"`
}

type geolocationData struct {
	Geolocation struct {
		Country struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"country"`
	} `json:"geolocation"`
}

// Fetch retrieves the identification event for a request ID. The sealed result
// path is not supported by this client; the API is always the source of truth.
func (c *Client) Fetch(ctx context.Context, requestID string, _ string) (*VerifiedIdentity, error) {
	endpoint := fmt.Sprintf("%s/events/%s", c.baseURL, requestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Auth-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeVerificationFailed, "verification API unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, dErrors.New(dErrors.CodeVerificationFailed, "unknown request ID")
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, dErrors.New(dErrors.CodeVerificationFailed, "verification API rejected credentials")
	default:
		return nil, dErrors.Newf(dErrors.CodeVerificationFailed, "verification API returned status %d", resp.StatusCode)
	}

	var event eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeVerificationFailed, "malformed verification response")
	}

	return eventToIdentity(requestID, &event), nil
}

func eventToIdentity(requestID string, event *eventResponse) *VerifiedIdentity {
	ident := event.Products.Identification.Data

	record := &VerifiedIdentity{
		VisitorID:       ident.VisitorID,
		RequestID:       requestID,
		Timestamp:       time.UnixMilli(ident.Timestamp),
		ConfidenceScore: ident.Confidence.Score,
		Signals: Signals{
			Bot:            BotResult(event.Products.Botd.Data.Bot.Result),
			VPN:            event.Products.VPN.Data.Result,
			OriginTimezone: event.Products.VPN.Data.OriginTimezone,
			Tor:            event.Products.Tor.Data.Result,
			Proxy:          event.Products.Proxy.Data.Result,
			Incognito:      ident.Incognito,
			Tampering:      event.Products.Tampering.Data.Result,
			IPBlocklist:    event.Products.IPBlocklist.Data.Result,
			IP:             ident.IP,
			OriginURL:      ident.URL,
		},
	}
	record.Signals.VPNMethods = VPNMethods{
		PublicVPN:        event.Products.VPN.Data.Methods.PublicVPN,
		TimezoneMismatch: event.Products.VPN.Data.Methods.TimezoneMismatch,
		AuxiliaryMobile:  event.Products.VPN.Data.Methods.AuxiliaryMobile,
	}

	// The event API either matched the request ID to an identification or it
	// did not. A matched event with the same request ID counts as one visit;
	// anything else means the token was forged.
	if ident.VisitorID != "" && (ident.RequestID == "" || ident.RequestID == requestID) {
		record.Visits = 1
	}

	// Prefer v6 geolocation when both are present, matching the upstream API.
	ipInfo := event.Products.IPInfo.Data
	geo := ipInfo.V6
	if geo == nil {
		geo = ipInfo.V4
	}
	if geo != nil {
		record.Signals.CountryCode = geo.Geolocation.Country.Code
		record.Signals.CountryName = geo.Geolocation.Country.Name
	}

	return record
}
