package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Credentials stores the app credentials and access token used to
// authenticate Graph API requests.
type Credentials struct {
	mutex       sync.RWMutex
	appID       string
	appSecret   string
	accessToken string
}

// NewCredentials creates an empty credential store.
func NewCredentials() *Credentials {
	return &Credentials{}
}

// SetAppCredentials sets the app id and secret.
func (c *Credentials) SetAppCredentials(appID, appSecret string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.appID = appID
	c.appSecret = appSecret
}

// SetAccessToken sets the access token sent with every request.
func (c *Credentials) SetAccessToken(accessToken string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.accessToken = accessToken
}

// AppID returns the configured app id.
func (c *Credentials) AppID() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.appID
}

// AppSecret returns the configured app secret.
func (c *Credentials) AppSecret() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.appSecret
}

// HasAppCredentials reports whether both app id and secret are set.
func (c *Credentials) HasAppCredentials() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.appID != "" && c.appSecret != ""
}

// AccessToken returns the explicit access token, falling back to the app
// access token "<app id>|<app secret>". It is empty when neither is set.
func (c *Credentials) AccessToken() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.accessToken != "" {
		return c.accessToken
	}

	if c.appID != "" && c.appSecret != "" {
		return AppAccessToken(c.appID, c.appSecret)
	}

	return ""
}

// AppAccessToken builds an app access token from app credentials.
func AppAccessToken(appID, appSecret string) string {
	return appID + "|" + appSecret
}

// AppSecretProof signs an access token with the app secret (hex HMAC-SHA256).
func AppSecretProof(accessToken, appSecret string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	_, _ = mac.Write([]byte(accessToken))

	return hex.EncodeToString(mac.Sum(nil))
}
