package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToE164(t *testing.T) {
	assert.Equal(t, "+5511987654321", ToE164("11987654321"))
	assert.Equal(t, "+5511987654321", ToE164("5511987654321"))
	assert.Equal(t, "+5511987654321", ToE164("+5511987654321"))
	assert.Equal(t, "", ToE164(""))
}
