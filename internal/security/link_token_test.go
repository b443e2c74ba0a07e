package security

import (
	"strings"
	"testing"
	"time"

	"book-review-api/internal/model"

	"github.com/stretchr/testify/assert"
)

// Тесты в пакете security, а не security_test: для сценариев со сроком
// жизни подменяется поле now.

func TestLinkTokenCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewLinkTokenCodec("secret", PurposeEmailConfirmation)

	token, err := codec.Encode(map[string]string{"email": "test@example.com"})
	assert.NoError(t, err)

	payload, err := codec.Decode(token, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", payload["email"])
}

func TestLinkTokenCodec_ExpiredToken(t *testing.T) {
	issued := time.Now()
	codec := NewLinkTokenCodec("secret", PurposeEmailConfirmation)
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(map[string]string{"email": "test@example.com"})
	assert.NoError(t, err)

	// за секунду до истечения срока токен ещё валиден
	codec.now = func() time.Time { return issued.Add(time.Hour - time.Second) }
	_, err = codec.Decode(token, time.Hour)
	assert.NoError(t, err)

	// через секунду после — уже нет
	codec.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	_, err = codec.Decode(token, time.Hour)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestLinkTokenCodec_TamperedBody(t *testing.T) {
	codec := NewLinkTokenCodec("secret", PurposeEmailConfirmation)

	token, _ := codec.Encode(map[string]string{"email": "test@example.com"})

	parts := strings.Split(token, ".")
	tampered := "eyJlbWFpbCI6ImV2aWxAZXhhbXBsZS5jb20ifQ" + "." + parts[1] + "." + parts[2]

	_, err := codec.Decode(tampered, time.Hour)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestLinkTokenCodec_WrongSecret(t *testing.T) {
	codec := NewLinkTokenCodec("secret", PurposeEmailConfirmation)
	other := NewLinkTokenCodec("другой секрет", PurposeEmailConfirmation)

	token, _ := codec.Encode(map[string]string{"email": "test@example.com"})

	_, err := other.Decode(token, time.Hour)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestLinkTokenCodec_CrossPurposeRejected(t *testing.T) {
	// токен подтверждения почты нельзя скормить кодеку сброса пароля,
	// хотя секрет у них общий
	verify := NewLinkTokenCodec("secret", PurposeEmailConfirmation)
	reset := NewLinkTokenCodec("secret", PurposePasswordReset)

	token, _ := verify.Encode(map[string]string{"email": "test@example.com"})

	_, err := reset.Decode(token, time.Hour)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestLinkTokenCodec_MalformedToken(t *testing.T) {
	codec := NewLinkTokenCodec("secret", PurposeEmailConfirmation)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.@@@.###"} {
		_, err := codec.Decode(token, time.Hour)
		assert.ErrorIs(t, err, model.ErrTokenInvalid, "токен %q", token)
	}
}

func TestLinkFingerprint_Stable(t *testing.T) {
	assert.Equal(t, LinkFingerprint("token"), LinkFingerprint("token"))
	assert.NotEqual(t, LinkFingerprint("token"), LinkFingerprint("other"))
	assert.Len(t, LinkFingerprint("token"), 64)
}
