// Package telegram verifies the signed init data the Telegram WebApp
// SDK hands to a mini-app on launch.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Errors for init data verification.
var (
	ErrMissingHash = errors.New("init data carries no hash")
	ErrInvalidHash = errors.New("init data hash does not match")
	ErrMissingUser = errors.New("init data carries no user")
)

// VerifyInitData checks the HMAC signature of a raw initData query
// string against the bot token and returns the parsed values. The
// scheme is the one Telegram documents: the secret key is
// HMAC-SHA256("WebAppData", botToken) and the signed message is the
// sorted key=value lines of every field except the hash itself.
func VerifyInitData(initData, botToken string) (url.Values, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrMissingHash
	}
	values.Del("hash")

	if !hmac.Equal([]byte(computeHash(values, botToken)), []byte(hash)) {
		return nil, ErrInvalidHash
	}

	return values, nil
}

// UserID extracts the numeric user id from verified init data values
func UserID(values url.Values) (string, error) {
	var user struct {
		ID int64 `json:"id"`
	}
	raw := values.Get("user")
	if raw == "" {
		return "", ErrMissingUser
	}
	err := json.Unmarshal([]byte(raw), &user)
	if err != nil {
		return "", err
	}
	if user.ID == 0 {
		return "", ErrMissingUser
	}

	return strconv.FormatInt(user.ID, 10), nil
}

func computeHash(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+values.Get(key))
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))

	return hex.EncodeToString(mac.Sum(nil))
}
