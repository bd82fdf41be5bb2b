package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendatamd/regcrawl/internal/address"
	"github.com/opendatamd/regcrawl/internal/entity"
)

func TestMakeAndCopy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		full     string
		place    string
		expected string
	}{
		{"full and place", "str. Ștefan cel Mare 1, Chișinău", "0110", "str. Ștefan cel Mare 1, Chișinău, 0110"},
		{"full only", "str. Ștefan cel Mare 1", "", "str. Ștefan cel Mare 1"},
		{"place only", "", "0110", "0110"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := entity.New(entity.Organization)
			address.Copy(e, address.Make(tt.full, tt.place))
			assert.Equal(t, []string{tt.expected}, e.Get("address"))
		})
	}
}

func TestCopyEmptyAddress(t *testing.T) {
	t.Parallel()

	e := entity.New(entity.Organization)
	address.Copy(e, address.Make("", ""))
	assert.False(t, e.Has("address"))
}
