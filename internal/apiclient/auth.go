package apiclient

import (
	"context"

	"golang.org/x/oauth2"
)

const smsTypeSystem = "SYSTEM"

type registerRequest struct {
	Login     string `json:"login"`
	Agreement bool   `json:"agreement"`
}

type smsRequest struct {
	Login   string `json:"login"`
	SMSCode string `json:"smsCode,omitempty"`
	SMSType string `json:"smsType"`
}

// RegisterUser starts registration for a phone number.
func (c *Client) RegisterUser(ctx context.Context, phone string, agreement bool) (*Payload, error) {
	return c.postJSON(ctx, c.cfg.CMRAPIURL+"/rest/api/v1/register/auth", registerRequest{Login: phone, Agreement: agreement}, nil)
}

func (c *Client) SendSMS(ctx context.Context, phone string) (*Payload, error) {
	return c.postJSON(ctx, c.cfg.CMRAPIURL+"/rest/api/v1/register/send", smsRequest{Login: phone, SMSType: smsTypeSystem}, nil)
}

// VerifySMS activates the account; the upstream answers with the password as plain text.
func (c *Client) VerifySMS(ctx context.Context, phone, code string) (*Payload, error) {
	return c.postJSON(ctx, c.cfg.CMRAPIURL+"/rest/api/v1/register/auth/activate", smsRequest{Login: phone, SMSCode: code, SMSType: smsTypeSystem}, nil)
}

// GetAuthToken exchanges phone and password for an access token (OAuth2 password grant,
// client credentials in the Basic header).
func (c *Client) GetAuthToken(ctx context.Context, phone, password string) (*oauth2.Token, error) {
	conf := &oauth2.Config{
		ClientID:     c.cfg.OAuthClientID,
		ClientSecret: c.cfg.OAuthClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.cfg.CMRAPIURL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	token, err := conf.PasswordCredentialsToken(context.WithValue(ctx, oauth2.HTTPClient, c.http), phone, password)
	if err != nil {
		c.logger.Errorf("API request failed: token exchange for %v: %v", phone, err)
		return nil, err
	}
	return token, nil
}
