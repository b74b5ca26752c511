package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/collabhub/internal/repository"
	"github.com/sakif/collabhub/internal/repository/repotest"
)

func TestStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store {
		return New()
	})
}

func TestPrepend(t *testing.T) {
	var list []int
	list = prepend(list, 1)
	list = prepend(list, 2)
	list = prepend(list, 3)
	assert.Equal(t, []int{3, 2, 1}, list)
}
