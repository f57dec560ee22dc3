package telegram

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "12345:test-bot-token"

// SignInitData builds a signed initData string the way the Telegram
// WebApp SDK does, for tests
func SignInitData(values url.Values, botToken string) string {
	signed := url.Values{}
	for key := range values {
		signed.Set(key, values.Get(key))
	}
	signed.Set("hash", computeHash(values, botToken))

	return signed.Encode()
}

func TestVerifyInitData(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"first_name":"Ada"}`)
	values.Set("auth_date", "1756500000")
	values.Set("query_id", "AAEqAA")

	initData := SignInitData(values, testBotToken)

	verified, err := VerifyInitData(initData, testBotToken)
	require.NoError(t, err)

	id, err := UserID(verified)
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestVerifyInitDataRejectsTampering(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"first_name":"Ada"}`)
	values.Set("auth_date", "1756500000")

	initData := SignInitData(values, testBotToken)

	// flipping the user id invalidates the signature
	tampered, err := url.ParseQuery(initData)
	require.NoError(t, err)
	tampered.Set("user", `{"id":43,"first_name":"Ada"}`)

	_, err = VerifyInitData(tampered.Encode(), testBotToken)
	assert.Equal(t, ErrInvalidHash, err)

	// so does signing with another bot's token
	_, err = VerifyInitData(initData, "67890:other-bot")
	assert.Equal(t, ErrInvalidHash, err)
}

func TestVerifyInitDataRequiresHash(t *testing.T) {
	_, err := VerifyInitData("user=%7B%22id%22%3A42%7D", testBotToken)
	assert.Equal(t, ErrMissingHash, err)
}

func TestUserID(t *testing.T) {
	values := url.Values{}
	_, err := UserID(values)
	assert.Equal(t, ErrMissingUser, err)

	values.Set("user", `{"first_name":"Ada"}`)
	_, err = UserID(values)
	assert.Equal(t, ErrMissingUser, err)

	values.Set("user", `{"id":9000000001}`)
	id, err := UserID(values)
	require.NoError(t, err)
	assert.Equal(t, "9000000001", id)
}
