package notification

import (
	"testing"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientKey_RoundTrip(t *testing.T) {
	r := Recipient{Kind: RecipientDriver, ID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"}

	parsed, err := ParseRecipientKey(r.Key())
	require.NoError(t, err)
	assert.Equal(t, r, parsed)

	for _, bad := range []string{"", "driver", "robot:1", "customer:"} {
		_, err := ParseRecipientKey(bad)
		assert.ErrorIs(t, err, ErrInvalidRecipient, bad)
	}
}

func TestRecipientFor(t *testing.T) {
	assert.Equal(t, Recipient{Kind: RecipientCustomer, ID: "c"}, RecipientFor(auth.Principal{Kind: auth.KindCustomer, ID: "c"}))
	assert.Equal(t, Recipient{Kind: RecipientDriver, ID: "d"}, RecipientFor(auth.Principal{Kind: auth.KindDriver, ID: "d"}))
	assert.Equal(t, Recipient{Kind: RecipientUser, ID: "u"}, RecipientFor(auth.Principal{Kind: auth.KindUser, ID: "u"}))
}

func TestSendRequest_Validate(t *testing.T) {
	req := SendRequest{
		RecipientKind: "customer",
		RecipientID:   "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		Title:         "Pickup moved",
		Message:       "Your pickup moved to Friday.",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, string(TypeGeneral), req.Type)

	req = SendRequest{RecipientKind: "vendor", Type: "spam"}
	err := req.Validate()
	require.Error(t, err)
	for _, field := range []string{"recipient_kind", "recipient_id", "type", "title", "message"} {
		assert.Contains(t, err.Error(), field)
	}
}
