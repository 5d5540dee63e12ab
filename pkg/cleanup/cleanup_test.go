package cleanup_test

import (
	"errors"
	"testing"

	"github.com/limbo/habitlens/pkg/cleanup"
	"github.com/stretchr/testify/assert"
)

func TestCleanUpOrder(t *testing.T) {
	order := make([]string, 0, 3)
	for _, name := range []string{"pool", "server", "client"} {
		cleanup.Register(&cleanup.Job{
			Name: name,
			F: func() error {
				order = append(order, name)
				if name == "server" {
					return errors.New("already closed")
				}
				return nil
			},
		})
	}
	cleanup.CleanUp()
	assert.Equal(t, []string{"client", "server", "pool"}, order)

	cleanup.CleanUp()
	assert.Len(t, order, 3)
}
